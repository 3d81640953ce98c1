package document

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
)

// PDFWriter renders an A4 PDF with a running page header. Pages follow the
// document's page breaks; a line too long for the page width wraps.
type PDFWriter struct {
	// FontPath is an optional TrueType font with CJK coverage.
	FontPath string
}

func (p *PDFWriter) Ext() string { return ".pdf" }

const (
	pdfFontSize   = 9
	pdfLineHeight = 4.2
)

func (p *PDFWriter) Write(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(doc.Title, true)

	family := "Courier"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if p.FontPath != "" {
		data, err := os.ReadFile(p.FontPath)
		if err != nil {
			return fmt.Errorf("reading PDF font: %w", err)
		}
		family = "codefont"
		pdf.AddUTF8FontFromBytes(family, "", data)
		tr = func(s string) string { return s }
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(family, "", pdfFontSize)
		text := doc.Title
		if doc.Role == Kept {
			text = pageHeader(doc.Title, pdf.PageNo())
		}
		pdf.CellFormat(0, pdfLineHeight, tr(text), "B", 1, "R", false, 0, "")
		pdf.Ln(pdfLineHeight)
	})

	line := func(s string) {
		pdf.MultiCell(0, pdfLineHeight, tr(expandTabs(s)), "", "L", false)
	}

	pdf.AddPage()
	pdf.SetFont(family, "", pdfFontSize)
	if doc.Role == Removed {
		for _, l := range doc.Preamble {
			line(l)
		}
		if len(doc.Preamble) > 0 {
			pdf.Ln(pdfLineHeight)
		}
		if len(doc.Entries) == 0 {
			line(NothingRemoved)
		}
		for _, e := range doc.Entries {
			line(Location(e) + "  " + e.Text)
		}
	} else {
		for _, e := range doc.Entries {
			if e.Kind == PageBreak {
				pdf.AddPage()
				continue
			}
			// MultiCell collapses an empty string to no height.
			if e.Text == "" {
				pdf.Ln(pdfLineHeight)
				continue
			}
			line(e.Text)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}
	return pdf.Output(w)
}
