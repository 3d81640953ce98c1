package comment

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Lang is the natural-language tag of a comment's text.
type Lang int

const (
	LangUnknown Lang = iota
	LangNative
	LangForeign
)

func (l Lang) String() string {
	switch l {
	case LangNative:
		return "native"
	case LangForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Lang) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Tagger assigns a natural-language tag to comment text.
type Tagger interface {
	Tag(text string) Lang
}

// Defaults for ScriptTagger.
const (
	DefaultNativeScript = "Han"
	DefaultMinTokens    = 3
	DefaultForeignRatio = 0.9
)

// ScriptTagger classifies comment text by the share of letters that fall
// outside the project's native script. Text is NFKC-normalised first so
// full-width Latin counts as Latin. Each ideograph or kana counts as one
// token; other tokens are runs of letters and digits. Text with fewer than
// MinTokens tokens, or with no letters at all, is LangUnknown.
type ScriptTagger struct {
	native       *unicode.RangeTable
	minTokens    int
	foreignRatio float64
}

// NewScriptTagger builds a tagger for the named Unicode script (for example
// "Han", "Latin", "Cyrillic"). The ratio is the minimum share of non-native
// letters, in (0, 1], for text to be tagged foreign.
func NewScriptTagger(nativeScript string, minTokens int, foreignRatio float64) (*ScriptTagger, error) {
	table, ok := unicode.Scripts[nativeScript]
	if !ok {
		return nil, fmt.Errorf("unknown native script %q", nativeScript)
	}
	if minTokens < 1 {
		return nil, fmt.Errorf("minimum token count must be at least 1, got %d", minTokens)
	}
	if foreignRatio <= 0 || foreignRatio > 1 {
		return nil, fmt.Errorf("foreign ratio must be in (0, 1], got %g", foreignRatio)
	}
	return &ScriptTagger{
		native:       table,
		minTokens:    minTokens,
		foreignRatio: foreignRatio,
	}, nil
}

// DefaultTagger returns a tagger with the default parameters.
func DefaultTagger() *ScriptTagger {
	t, _ := NewScriptTagger(DefaultNativeScript, DefaultMinTokens, DefaultForeignRatio)
	return t
}

// Tag implements Tagger.
func (t *ScriptTagger) Tag(text string) Lang {
	text = norm.NFKC.String(strings.TrimSpace(text))
	if text == "" {
		return LangUnknown
	}

	tokens := 0
	inWord := false
	var native, foreign int
	for _, r := range text {
		switch {
		case isSyllabic(r):
			tokens++
			inWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if !inWord {
				tokens++
				inWord = true
			}
		default:
			inWord = false
		}
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.Is(t.native, r) {
			native++
		} else {
			foreign++
		}
	}

	if tokens < t.minTokens || native+foreign == 0 {
		return LangUnknown
	}
	if float64(foreign)/float64(native+foreign) >= t.foreignRatio {
		return LangForeign
	}
	return LangNative
}

func isSyllabic(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana)
}
