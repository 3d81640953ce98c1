package comment

import "strings"

// SpanKind distinguishes block comments from runs of line comments.
type SpanKind int

const (
	SpanBlock SpanKind = iota
	SpanSingleRun
)

func (k SpanKind) String() string {
	if k == SpanSingleRun {
		return "single-run"
	}
	return "block"
}

// MarshalText implements encoding.TextMarshaler.
func (k SpanKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Span is a contiguous comment region of one file, End inclusive.
type Span struct {
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Kind       SpanKind `json:"kind"`
	Lang       Lang     `json:"lang"`
	Incomplete bool     `json:"incomplete,omitempty"`

	// ContinuesMixed marks a block whose opener sits after code on the
	// line before Start.
	ContinuesMixed bool `json:"continuesMixed,omitempty"`
}

// Len returns the number of lines in the span.
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Detect groups classified lines into comment spans in one pass. Blocks
// run from an opener to the first closer (no nesting); a block still open
// at EOF extends to the last line and is marked Incomplete. Mixed lines
// never belong to a span, so continuation lines of a block opened on a
// Mixed line start their own span, flagged ContinuesMixed.
//
// The span's Lang is computed by tagger over the span's joined comment
// text. With a nil tagger it is the majority of the members' tags.
func Detect(lines []Line, tagger Tagger) []Span {
	var spans []Span
	var cur *Span

	finish := func(end int) {
		if cur == nil {
			return
		}
		cur.End = end
		cur.Lang = spanLang(lines[cur.Start:end+1], tagger)
		spans = append(spans, *cur)
		cur = nil
	}

	for i, l := range lines {
		switch l.Label {
		case BlockOpen:
			finish(i - 1)
			cur = &Span{Start: i, Kind: SpanBlock}
		case BlockBody, BlockClose:
			if cur == nil || cur.Kind != SpanBlock {
				finish(i - 1)
				cur = &Span{Start: i, Kind: SpanBlock}
				cur.ContinuesMixed = i > 0 && lines[i-1].Label == Mixed
			}
			if l.Label == BlockClose {
				finish(i)
			}
		case BlockOpenClose:
			finish(i - 1)
			cur = &Span{Start: i, Kind: SpanBlock}
			finish(i)
		case SingleLine:
			if cur == nil || cur.Kind != SpanSingleRun {
				finish(i - 1)
				cur = &Span{Start: i, Kind: SpanSingleRun}
			}
		default:
			finish(i - 1)
		}
	}

	if cur != nil {
		if cur.Kind == SpanBlock {
			cur.Incomplete = true
		}
		finish(len(lines) - 1)
	}
	return spans
}

func spanLang(members []Line, tagger Tagger) Lang {
	if tagger != nil {
		parts := make([]string, 0, len(members))
		for _, l := range members {
			if l.Comment != "" {
				parts = append(parts, l.Comment)
			}
		}
		return tagger.Tag(strings.Join(parts, " "))
	}
	var native, foreign int
	for _, l := range members {
		switch l.Lang {
		case LangNative:
			native++
		case LangForeign:
			foreign++
		}
	}
	switch {
	case foreign > native:
		return LangForeign
	case native > 0 && native >= foreign:
		return LangNative
	default:
		return LangUnknown
	}
}

// SpanIndex maps each line index to the index of the span containing it,
// or -1.
func SpanIndex(n int, spans []Span) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = -1
	}
	for si, s := range spans {
		for i := s.Start; i <= s.End && i < n; i++ {
			idx[i] = si
		}
	}
	return idx
}
