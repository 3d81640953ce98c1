package order

import (
	"errors"
	"fmt"
)

// ErrInvalidPageSize is returned for a lines-per-page value below 1.
var ErrInvalidPageSize = errors.New("lines per page must be at least 1")

// PlanEntry places one file in the paginated document.
type PlanEntry struct {
	Path string `json:"path"`
	// StartPage is 1-based.
	StartPage int `json:"startPage"`
	// StartOffset is how many lines of StartPage precede the file.
	StartOffset int `json:"startOffset"`
	// Lines is the number of document lines the file contributes.
	Lines int `json:"lines"`
}

// Plan is the page layout of an ordered file list.
type Plan struct {
	LinesPerPage int         `json:"linesPerPage"`
	Entries      []PlanEntry `json:"entries"`
	Pages        int         `json:"pages"`
}

// NewPlan lays out files with the given per-file line contributions,
// filling pages of linesPerPage lines in order.
func NewPlan(paths []string, lines []int, linesPerPage int) (Plan, error) {
	if linesPerPage < 1 {
		return Plan{}, fmt.Errorf("%w, got %d", ErrInvalidPageSize, linesPerPage)
	}
	if len(paths) != len(lines) {
		return Plan{}, fmt.Errorf("plan: %d paths but %d line counts", len(paths), len(lines))
	}
	p := Plan{LinesPerPage: linesPerPage, Entries: make([]PlanEntry, len(paths))}
	total := 0
	for i, path := range paths {
		p.Entries[i] = PlanEntry{
			Path:        path,
			StartPage:   total/linesPerPage + 1,
			StartOffset: total % linesPerPage,
			Lines:       lines[i],
		}
		total += lines[i]
	}
	p.Pages = PageCount(total, linesPerPage)
	return p, nil
}

// PageCount returns the pages needed for n lines. An empty document has
// zero pages.
func PageCount(n, linesPerPage int) int {
	if n <= 0 || linesPerPage < 1 {
		return 0
	}
	return (n + linesPerPage - 1) / linesPerPage
}

// Paginator decides where page breaks fall in a stream of lines.
type Paginator struct {
	per int
	n   int
}

// NewPaginator returns a Paginator for pages of per lines. per must be at
// least 1.
func NewPaginator(per int) *Paginator {
	return &Paginator{per: per}
}

// Next counts one line and reports whether a page break belongs before it.
// No break is ever placed before the first line or after the last.
func (p *Paginator) Next() bool {
	brk := p.n > 0 && p.n%p.per == 0
	p.n++
	return brk
}

// Count returns the lines seen so far.
func (p *Paginator) Count() int {
	return p.n
}
