package document

import (
	"io"
)

// TextWriter renders plain text. Pages are separated by a form feed.
type TextWriter struct{}

func (t *TextWriter) Ext() string { return ".txt" }

func (t *TextWriter) Write(w io.Writer, doc *Document) error {
	ew := &errWriter{w: w}
	if doc.Role == Removed {
		writeRemovedText(ew, doc)
		return ew.err
	}
	for i, page := range Pages(doc) {
		if i > 0 {
			ew.printf("\f")
		}
		ew.println(pageHeader(doc.Title, i+1))
		ew.println("")
		for _, e := range page {
			ew.println(e.Text)
		}
	}
	return ew.err
}

func writeRemovedText(ew *errWriter, doc *Document) {
	if doc.Title != "" {
		ew.println(doc.Title)
	}
	for _, l := range doc.Preamble {
		ew.println(l)
	}
	ew.println("")
	if len(doc.Entries) == 0 {
		ew.println(NothingRemoved)
		return
	}
	for _, e := range doc.Entries {
		ew.printf("%s\t%s\n", Location(e), e.Text)
	}
}
