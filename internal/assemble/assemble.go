package assemble

import (
	"fmt"
	"path"
	"sort"

	"github.com/dshills/codereg/internal/document"
	"github.com/dshills/codereg/internal/order"
	"github.com/dshills/codereg/internal/redact"
	"github.com/dshills/codereg/internal/source"
)

// FileDecisions pairs a file with one decision per line.
type FileDecisions struct {
	File      source.File
	Decisions []redact.Decision
}

// HeaderText is the filename label emitted before a file's content.
func HeaderText(p string) string {
	return path.Base(p)
}

// KeptLines returns how many paragraphs a file contributes to the kept
// document, header included when it is kept.
func KeptLines(fd FileDecisions, header redact.Action) int {
	n := 0
	if header == redact.ActionKeep {
		n++
	}
	for _, d := range fd.Decisions {
		if d.Action != redact.ActionDrop {
			n++
		}
	}
	return n
}

// Assemble routes every line of every file, in order, into the kept
// document, the removed document, or (for split lines) both. Page breaks
// are placed in the kept document every plan.LinesPerPage paragraphs.
func Assemble(files []FileDecisions, plan order.Plan, header redact.Action) (kept, removed *document.Document, err error) {
	if plan.LinesPerPage < 1 {
		return nil, nil, fmt.Errorf("%w, got %d", order.ErrInvalidPageSize, plan.LinesPerPage)
	}
	if len(plan.Entries) != len(files) {
		return nil, nil, fmt.Errorf("plan has %d entries for %d files", len(plan.Entries), len(files))
	}

	kept = &document.Document{Role: document.Kept}
	removed = &document.Document{Role: document.Removed}
	pg := order.NewPaginator(plan.LinesPerPage)

	keep := func(e document.Entry) {
		if pg.Next() {
			kept.Entries = append(kept.Entries, document.Entry{Kind: document.PageBreak})
		}
		kept.Entries = append(kept.Entries, e)
	}
	drop := func(e document.Entry) {
		removed.Entries = append(removed.Entries, e)
	}

	for i, fd := range files {
		f := fd.File
		if plan.Entries[i].Path != f.Path {
			return nil, nil, fmt.Errorf("plan entry %d is %q, want %q", i, plan.Entries[i].Path, f.Path)
		}
		if len(fd.Decisions) != len(f.Lines) {
			return nil, nil, fmt.Errorf("%s: %d decisions for %d lines", f.Path, len(fd.Decisions), len(f.Lines))
		}
		if got, want := pg.Count()/plan.LinesPerPage+1, plan.Entries[i].StartPage; got != want {
			return nil, nil, fmt.Errorf("%s: plan starts on page %d, assembly reached page %d", f.Path, want, got)
		}

		h := document.Entry{File: f.Path, Line: document.HeaderLine, Text: HeaderText(f.Path)}
		if header == redact.ActionKeep {
			keep(h)
		} else {
			h.Reason = redact.ReasonHeader
			drop(h)
		}

		for j, d := range fd.Decisions {
			text := f.Lines[j]
			line := f.SourceLine(j) - 1
			e := document.Entry{File: f.Path, Line: line, Text: text}
			switch d.Action {
			case redact.ActionKeep:
				keep(e)
			case redact.ActionDrop:
				e.Reason = d.Reason
				drop(e)
			case redact.ActionSplit:
				keep(document.Entry{File: f.Path, Line: line, Part: document.Prefix, Text: text[:d.Split]})
				drop(document.Entry{File: f.Path, Line: line, Part: document.Suffix, Text: text[d.Split:], Reason: d.Reason})
			case redact.ActionSplitHead:
				drop(document.Entry{File: f.Path, Line: line, Part: document.Prefix, Text: text[:d.Split], Reason: d.Reason})
				keep(document.Entry{File: f.Path, Line: line, Part: document.Suffix, Text: text[d.Split:]})
			}
		}
	}
	return kept, removed, nil
}

// Reconstruct merges kept and removed paragraphs back into per-file line
// lists (headers excluded). For any assembly, Reconstruct returns exactly
// the input lines.
func Reconstruct(kept, removed *document.Document) map[string][]string {
	type piece struct {
		line int
		part document.Part
		text string
	}
	byFile := map[string][]piece{}
	for _, d := range []*document.Document{kept, removed} {
		for _, e := range d.Entries {
			if e.Kind != document.Paragraph || e.IsHeader() {
				continue
			}
			byFile[e.File] = append(byFile[e.File], piece{e.Line, e.Part, e.Text})
		}
	}

	out := make(map[string][]string, len(byFile))
	for file, pieces := range byFile {
		sort.SliceStable(pieces, func(a, b int) bool {
			if pieces[a].line != pieces[b].line {
				return pieces[a].line < pieces[b].line
			}
			return pieces[a].part < pieces[b].part
		})
		var lines []string
		for _, p := range pieces {
			if p.part == document.Suffix && len(lines) > 0 {
				lines[len(lines)-1] += p.text
				continue
			}
			lines = append(lines, p.text)
		}
		out[file] = lines
	}
	return out
}
