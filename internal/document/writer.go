package document

import (
	"fmt"
	"io"
	"strings"
)

// Writer renders a document in one file format.
type Writer interface {
	Write(w io.Writer, doc *Document) error
	// Ext is the file extension, including the dot.
	Ext() string
}

// Options tune rendering.
type Options struct {
	// PDFFont is a TrueType font used for PDF output. Without it the
	// built-in Courier font is used and characters outside Latin-1 are
	// replaced.
	PDFFont string
}

// Formats lists the supported format names.
var Formats = []string{"docx", "pdf", "txt", "md"}

// GetWriter returns a writer for the specified format.
func GetWriter(format string, opts Options) (Writer, error) {
	switch format {
	case "docx":
		return &DOCXWriter{}, nil
	case "pdf":
		return &PDFWriter{FontPath: opts.PDFFont}, nil
	case "txt", "text":
		return &TextWriter{}, nil
	case "md", "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported document format: %s", format)
	}
}

// Pages splits the entries of doc at page breaks. An empty document yields
// no pages.
func Pages(doc *Document) [][]Entry {
	var pages [][]Entry
	var cur []Entry
	for _, e := range doc.Entries {
		if e.Kind == PageBreak {
			pages = append(pages, cur)
			cur = nil
			continue
		}
		cur = append(cur, e)
	}
	if len(cur) > 0 {
		pages = append(pages, cur)
	}
	return pages
}

// NothingRemoved is rendered in place of entries for an empty removed
// document.
const NothingRemoved = "(nothing removed)"

// Location is the "path:line" label of a removed paragraph. Line numbers
// are 1-based; the filename label shows as "path:header". A trailing "+"
// marks part of a line whose other part was kept.
func Location(e Entry) string {
	if e.IsHeader() {
		return e.File + ":header"
	}
	loc := fmt.Sprintf("%s:%d", e.File, e.Line+1)
	if e.Part != Whole {
		loc += "+"
	}
	return loc
}

// pageHeader is the running header text of a kept page.
func pageHeader(title string, page int) string {
	if title == "" {
		return fmt.Sprintf("Page %d", page)
	}
	return fmt.Sprintf("%s    Page %d", title, page)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
