package redact

import (
	"github.com/dshills/codereg/internal/comment"
)

// Action is the outcome for one line.
type Action int

const (
	ActionKeep Action = iota
	ActionDrop
	// ActionSplit keeps Text[:Split] and drops Text[Split:].
	ActionSplit
	// ActionSplitHead drops Text[:Split] and keeps Text[Split:].
	ActionSplitHead
)

func (a Action) String() string {
	switch a {
	case ActionDrop:
		return "drop"
	case ActionSplit:
		return "split"
	case ActionSplitHead:
		return "split-head"
	default:
		return "keep"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Reason names the rule responsible for a removal.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonHeader
	ReasonBlock
	ReasonForeign
	ReasonSampled
)

func (r Reason) String() string {
	switch r {
	case ReasonHeader:
		return "header"
	case ReasonBlock:
		return "block"
	case ReasonForeign:
		return "foreign"
	case ReasonSampled:
		return "sampled"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Decision is the redaction outcome for one source line.
type Decision struct {
	Line   int    `json:"line"`
	Action Action `json:"action"`
	Split  int    `json:"split,omitempty"`
	Reason Reason `json:"reason,omitempty"`
}

// HeaderAction returns the outcome for the synthetic filename label that
// precedes each file in the document.
func HeaderAction(rules Rules) Action {
	if rules.StripFileHeader {
		return ActionDrop
	}
	return ActionKeep
}

// Decide returns one decision per line, ordered by line index. spans must
// come from comment.Detect over the same lines.
func Decide(lines []comment.Line, spans []comment.Span, rules Rules) []Decision {
	member := comment.SpanIndex(len(lines), spans)
	out := make([]Decision, len(lines))
	counter := 0

	// Mixed lines whose trailing block continues onto the next line.
	opener := make(map[int]bool)
	for _, s := range spans {
		if s.ContinuesMixed && s.Start > 0 {
			opener[s.Start-1] = true
		}
	}

	for i, l := range lines {
		out[i] = Decision{Line: l.Index}

		var span *comment.Span
		if member[i] >= 0 {
			span = &spans[member[i]]
		}
		lang := l.Lang
		if span != nil && span.Kind == comment.SpanBlock {
			lang = span.Lang
		}
		bearing := span != nil || l.Label == comment.Mixed

		switch {
		case rules.StripBlockComments && span != nil && span.Kind == comment.SpanBlock &&
			(span.Len() >= 2 || span.Incomplete || span.ContinuesMixed):
			out[i] = remove(l, ReasonBlock)
		case rules.StripBlockComments && opener[i]:
			out[i] = remove(l, ReasonBlock)
		case rules.StripForeignComments && bearing && lang == comment.LangForeign:
			out[i] = remove(l, ReasonForeign)
		case sampleEligible(l) && sample(rules.SamplingRatio, &counter):
			out[i] = remove(l, ReasonSampled)
		}
	}
	return out
}

func sampleEligible(l comment.Line) bool {
	switch l.Label {
	case comment.SingleLine, comment.Mixed, comment.BlockOpenClose:
		return true
	}
	return false
}

// sample advances the per-file counter for an eligible line and reports
// whether that line is dropped.
func sample(ratio int, counter *int) bool {
	*counter++
	switch {
	case ratio <= 0:
		return false
	case ratio == 1:
		return true
	default:
		return *counter%ratio == 0
	}
}

func remove(l comment.Line, reason Reason) Decision {
	switch {
	case l.Label == comment.Mixed:
		return Decision{Line: l.Index, Action: ActionSplit, Split: l.Split, Reason: reason}
	case l.Label == comment.BlockClose && l.Split > 0:
		return Decision{Line: l.Index, Action: ActionSplitHead, Split: l.Split, Reason: reason}
	}
	return Decision{Line: l.Index, Action: ActionDrop, Reason: reason}
}
