package engine

import (
	"github.com/dshills/codereg/internal/order"
	"github.com/dshills/codereg/internal/redact"
	"github.com/dshills/codereg/internal/source"
)

// WarningKind classifies a non-fatal problem found during a run.
type WarningKind string

const (
	WarnIncompleteBlock WarningKind = "incomplete-block"
	WarnUnreadable      WarningKind = "unreadable"
	WarnTooShort        WarningKind = "too-short"
)

// Warning is a non-fatal problem tied to a file and, when known, a 1-based
// line.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	File    string      `json:"file" yaml:"file"`
	Line    int         `json:"line,omitempty" yaml:"line,omitempty"`
	Message string      `json:"message" yaml:"message"`
}

// SourceWarnings converts the files set aside by source.Load into warnings.
func SourceWarnings(set *source.Set, minLines int) []Warning {
	var out []Warning
	for _, re := range set.Unreadable {
		out = append(out, Warning{Kind: WarnUnreadable, File: re.Path, Message: re.Err.Error()})
	}
	for _, p := range set.Short {
		out = append(out, Warning{Kind: WarnTooShort, File: p, Message: fmtShort(minLines)})
	}
	return out
}

// ReasonCounts counts removed paragraphs by the rule that removed them.
type ReasonCounts struct {
	Header  int `json:"header" yaml:"header"`
	Block   int `json:"block" yaml:"block"`
	Foreign int `json:"foreign" yaml:"foreign"`
	Sampled int `json:"sampled" yaml:"sampled"`
}

func (c *ReasonCounts) add(r redact.Reason) {
	switch r {
	case redact.ReasonHeader:
		c.Header++
	case redact.ReasonBlock:
		c.Block++
	case redact.ReasonForeign:
		c.Foreign++
	case redact.ReasonSampled:
		c.Sampled++
	}
}

// Total sums all reasons.
func (c ReasonCounts) Total() int {
	return c.Header + c.Block + c.Foreign + c.Sampled
}

// FileStats summarises one file's outcome.
type FileStats struct {
	Path      string `json:"path" yaml:"path"`
	Language  string `json:"language" yaml:"language"`
	Lines     int    `json:"lines" yaml:"lines"`
	Kept      int    `json:"kept" yaml:"kept"`
	Dropped   int    `json:"dropped" yaml:"dropped"`
	Split     int    `json:"split" yaml:"split"`
	StartPage int    `json:"startPage" yaml:"startPage"`
}

// Summary totals a run.
type Summary struct {
	Files             int          `json:"files" yaml:"files"`
	Lines             int          `json:"lines" yaml:"lines"`
	KeptParagraphs    int          `json:"keptParagraphs" yaml:"keptParagraphs"`
	RemovedParagraphs int          `json:"removedParagraphs" yaml:"removedParagraphs"`
	Pages             int          `json:"pages" yaml:"pages"`
	Removed           ReasonCounts `json:"removed" yaml:"removed"`
}

// Timing contains performance metrics.
type Timing struct {
	ReadMs    int64 `json:"readMs" yaml:"readMs"`
	ProcessMs int64 `json:"processMs" yaml:"processMs"`
	WriteMs   int64 `json:"writeMs" yaml:"writeMs"`
	TotalMs   int64 `json:"totalMs" yaml:"totalMs"`
}

// Report is the machine-readable record of a run.
type Report struct {
	Tool     string       `json:"tool" yaml:"tool"`
	Version  string       `json:"version" yaml:"version"`
	RunID    string       `json:"runId" yaml:"runId"`
	Title    string       `json:"title" yaml:"title"`
	Rules    redact.Rules `json:"rules" yaml:"rules"`
	Summary  Summary      `json:"summary" yaml:"summary"`
	Files    []FileStats  `json:"files" yaml:"files"`
	Warnings []Warning    `json:"warnings" yaml:"warnings"`
	Outputs  []string     `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Timing   Timing       `json:"timing" yaml:"timing"`
}

// StartPages returns the page on which each file starts, keyed by path.
func (r *Report) StartPages() map[string]int {
	m := make(map[string]int, len(r.Files))
	for _, f := range r.Files {
		m[f.Path] = f.StartPage
	}
	return m
}

func statsFromPlan(files []FileStats, plan order.Plan) {
	for i := range files {
		if i < len(plan.Entries) {
			files[i].StartPage = plan.Entries[i].StartPage
		}
	}
}
