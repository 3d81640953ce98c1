package document

import (
	"io"
	"strings"
)

// MarkdownWriter renders each page as a fenced code block, pages separated
// by a thematic break.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Ext() string { return ".md" }

func (m *MarkdownWriter) Write(w io.Writer, doc *Document) error {
	ew := &errWriter{w: w}
	title := doc.Title
	if title == "" {
		title = "Source listing"
	}

	if doc.Role == Removed {
		ew.printf("# %s (removed content)\n\n", title)
		for _, l := range doc.Preamble {
			ew.printf("- %s\n", l)
		}
		if len(doc.Preamble) > 0 {
			ew.println("")
		}
		if len(doc.Entries) == 0 {
			ew.println(NothingRemoved)
			return ew.err
		}
		fence := fenceFor(doc.Entries)
		ew.println(fence)
		for _, e := range doc.Entries {
			ew.printf("%s\t%s\n", Location(e), e.Text)
		}
		ew.println(fence)
		return ew.err
	}

	ew.printf("# %s\n", title)
	pages := Pages(doc)
	for i, page := range pages {
		if i > 0 {
			ew.println("\n---")
		}
		ew.printf("\n## Page %d\n\n", i+1)
		fence := fenceFor(page)
		ew.println(fence)
		for _, e := range page {
			ew.println(e.Text)
		}
		ew.println(fence)
	}
	return ew.err
}

// fenceFor returns a backtick fence longer than any run inside the content.
func fenceFor(entries []Entry) string {
	longest := 0
	for _, e := range entries {
		run := 0
		for _, r := range e.Text {
			if r == '`' {
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 0
			}
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}
