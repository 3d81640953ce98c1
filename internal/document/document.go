package document

import (
	"github.com/dshills/codereg/internal/redact"
)

// Kind distinguishes text paragraphs from page breaks.
type Kind int

const (
	Paragraph Kind = iota
	PageBreak
)

func (k Kind) String() string {
	if k == PageBreak {
		return "page-break"
	}
	return "paragraph"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Part says which piece of a source line a paragraph holds.
type Part int

const (
	Whole Part = iota
	Prefix
	Suffix
)

func (p Part) String() string {
	switch p {
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	default:
		return "whole"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Part) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// HeaderLine is the Line of the filename label paragraph that precedes each
// file.
const HeaderLine = -1

// Entry is one paragraph or page break. Paragraphs record where their text
// came from so kept and removed documents can be merged back into the
// source. Line is the 0-based line in the file on disk, counting lines
// that were dropped while reading.
type Entry struct {
	Kind   Kind          `json:"kind"`
	File   string        `json:"file,omitempty"`
	Line   int           `json:"line"`
	Part   Part          `json:"part"`
	Text   string        `json:"text"`
	Reason redact.Reason `json:"reason,omitempty"`
}

// IsHeader reports whether e is a filename label.
func (e Entry) IsHeader() bool {
	return e.Kind == Paragraph && e.Line == HeaderLine
}

// Role distinguishes the filing document from its audit complement.
type Role int

const (
	Kept Role = iota
	Removed
)

func (r Role) String() string {
	if r == Removed {
		return "removed"
	}
	return "kept"
}

// Document is an ordered sequence of entries plus the metadata writers
// render around them.
type Document struct {
	Role Role
	// Title is rendered as the page header of a kept document.
	Title string
	// Preamble lines precede the entries of a removed document.
	Preamble []string
	Entries  []Entry
}

// Paragraphs counts non-break entries.
func (d *Document) Paragraphs() int {
	n := 0
	for _, e := range d.Entries {
		if e.Kind == Paragraph {
			n++
		}
	}
	return n
}

// Pages counts pages; an empty document has none.
func (d *Document) Pages() int {
	if d.Paragraphs() == 0 {
		return 0
	}
	n := 1
	for _, e := range d.Entries {
		if e.Kind == PageBreak {
			n++
		}
	}
	return n
}
