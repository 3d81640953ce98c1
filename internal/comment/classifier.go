package comment

import (
	"strings"
)

// Label is the lexical classification of one source line.
type Label int

const (
	Code Label = iota
	SingleLine
	BlockOpen
	BlockBody
	BlockClose
	BlockOpenClose
	Mixed
)

var labelNames = [...]string{
	Code:           "code",
	SingleLine:     "single-line",
	BlockOpen:      "block-open",
	BlockBody:      "block-body",
	BlockClose:     "block-close",
	BlockOpenClose: "block-open-close",
	Mixed:          "mixed",
}

func (l Label) String() string {
	if int(l) < len(labelNames) {
		return labelNames[l]
	}
	return "invalid"
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Line is a classified source line.
type Line struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Label Label  `json:"label"`
	// Split is the byte offset between comment and code. On a Mixed line
	// Text[:Split] is code and Text[Split:] is comment. On a BlockClose line
	// with code after the closer it is the reverse.
	Split int `json:"split,omitempty"`
	// Comment is the comment text stripped of delimiters and decoration.
	Comment string `json:"comment,omitempty"`
	Lang    Lang   `json:"lang"`
}

// State is threaded through a file's lines in order.
type State struct {
	InBlock bool
	Delim   Delim
}

// Classifier labels lines of one language.
type Classifier struct {
	syntax Syntax
	tagger Tagger
}

// NewClassifier returns a classifier for syntax. A nil tagger leaves every
// line LangUnknown.
func NewClassifier(syntax Syntax, tagger Tagger) *Classifier {
	return &Classifier{syntax: syntax, tagger: tagger}
}

// File classifies lines as a left-to-right fold starting from a fresh
// state. The returned state reports whether the file ended inside a block.
func (c *Classifier) File(lines []string) ([]Line, State) {
	out := make([]Line, len(lines))
	var st State
	for i, text := range lines {
		out[i], st = c.Classify(i, text, st)
	}
	return out, st
}

// Classify labels one line given the state left by the previous line.
func (c *Classifier) Classify(index int, text string, st State) (Line, State) {
	line := Line{Index: index, Text: text}

	if st.InBlock {
		if i := strings.Index(text, st.Delim.Close); i >= 0 {
			line.Label = BlockClose
			c.setComment(&line, text[:i])
			if end := i + len(st.Delim.Close); strings.TrimSpace(text[end:]) != "" {
				line.Split = end
			}
			return line, State{}
		}
		line.Label = BlockBody
		c.setComment(&line, text)
		return line, st
	}

	trimmed := strings.TrimLeft(text, " \t")
	if trimmed == "" {
		return line, st
	}
	lead := len(text) - len(trimmed)

	if d, ok := c.blockPrefix(trimmed); ok {
		rest := trimmed[len(d.Open):]
		j := strings.Index(rest, d.Close)
		switch {
		case j < 0:
			line.Label = BlockOpen
			c.setComment(&line, rest)
			return line, State{InBlock: true, Delim: d}
		case strings.TrimSpace(rest[j+len(d.Close):]) == "":
			line.Label = BlockOpenClose
			c.setComment(&line, rest[:j])
			return line, st
		default:
			// A leading comment followed by code stays code.
			return line, st
		}
	}

	if m, ok := c.linePrefix(trimmed); ok {
		line.Label = SingleLine
		c.setComment(&line, trimmed[len(m):])
		return line, st
	}

	off, marker, block, found := c.scanTrailing(text, lead)
	if !found {
		return line, st
	}
	split := len(strings.TrimRight(text[:off], " \t"))
	if block == nil {
		line.Label = Mixed
		line.Split = split
		c.setComment(&line, text[off+len(marker):])
		return line, st
	}

	rest := text[off+len(block.Open):]
	j := strings.Index(rest, block.Close)
	switch {
	case j < 0:
		line.Label = Mixed
		line.Split = split
		c.setComment(&line, rest)
		return line, State{InBlock: true, Delim: *block}
	case strings.TrimSpace(rest[j+len(block.Close):]) == "":
		line.Label = Mixed
		line.Split = split
		c.setComment(&line, rest[:j])
		return line, st
	default:
		return line, st
	}
}

func (c *Classifier) setComment(line *Line, raw string) {
	line.Comment = cleanComment(raw)
	if c.tagger != nil {
		line.Lang = c.tagger.Tag(line.Comment)
	}
}

// blockPrefix reports the block delimiter that opens s, if any. Block
// openers win over line markers sharing a prefix, such as Lua's "--[[".
func (c *Classifier) blockPrefix(s string) (Delim, bool) {
	for _, d := range c.syntax.Block {
		if strings.HasPrefix(s, d.Open) {
			return d, true
		}
	}
	return Delim{}, false
}

func (c *Classifier) linePrefix(s string) (string, bool) {
	for _, m := range c.syntax.Line {
		if strings.HasPrefix(s, m) {
			return m, true
		}
	}
	return "", false
}

// scanTrailing looks for the first comment opener after code, skipping
// string literals. Leading-only block delimiters are ignored here.
func (c *Classifier) scanTrailing(text string, from int) (int, string, *Delim, bool) {
	var quote byte
	for i := from; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		for k := range c.syntax.Block {
			d := c.syntax.Block[k]
			if !d.Leading && strings.HasPrefix(text[i:], d.Open) {
				return i, "", &d, true
			}
		}
		for _, m := range c.syntax.Line {
			if !strings.HasPrefix(text[i:], m) {
				continue
			}
			// "#" mid-token is usually code (${#var}, $#, x#y).
			if m == "#" && i > 0 && text[i-1] != ' ' && text[i-1] != '\t' {
				continue
			}
			return i, m, nil, true
		}
		if strings.IndexByte(string(c.syntax.Quotes), ch) >= 0 {
			quote = ch
		}
	}
	return 0, "", nil, false
}

func cleanComment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "*/#!-;%'= \t")
	return strings.TrimSpace(s)
}
