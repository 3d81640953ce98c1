package document

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCXWriter renders an Office Open XML word-processing document. Source
// lines use Courier New (SimSun for East Asian text) at 10pt with a page
// header carrying the title and page number.
type DOCXWriter struct{}

func (d *DOCXWriter) Ext() string { return ".docx" }

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>
</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rIdHeader1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
</Relationships>`

const (
	wNS     = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`
	rNS     = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	runProp = `<w:rPr><w:rFonts w:ascii="Courier New" w:hAnsi="Courier New" w:eastAsia="SimSun" w:cs="Courier New"/><w:sz w:val="20"/></w:rPr>`
	paraPr  = `<w:pPr><w:spacing w:before="0" w:after="0" w:line="240" w:lineRule="auto"/></w:pPr>`
)

func (d *DOCXWriter) Write(w io.Writer, doc *Document) error {
	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		body func(io.Writer) error
	}{
		{"[Content_Types].xml", constPart(docxContentTypes)},
		{"_rels/.rels", constPart(docxRootRels)},
		{"word/_rels/document.xml.rels", constPart(docxDocumentRels)},
		{"word/header1.xml", func(w io.Writer) error { return writeDOCXHeader(w, doc) }},
		{"word/document.xml", func(w io.Writer) error { return writeDOCXBody(w, doc) }},
	}
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", p.name, err)
		}
		if err := p.body(fw); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func constPart(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func writeDOCXHeader(w io.Writer, doc *Document) error {
	ew := &errWriter{w: w}
	ew.printf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n<w:hdr %s><w:p>%s", wNS, paraPr)
	if doc.Role == Kept {
		ew.printf(`<w:r>%s<w:t xml:space="preserve">%s    Page </w:t></w:r>`, runProp, escapeXML(doc.Title))
		ew.printf(`<w:r>%s<w:fldChar w:fldCharType="begin"/></w:r>`, runProp)
		ew.printf(`<w:r>%s<w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>`, runProp)
		ew.printf(`<w:r>%s<w:fldChar w:fldCharType="separate"/></w:r>`, runProp)
		ew.printf(`<w:r>%s<w:t>1</w:t></w:r>`, runProp)
		ew.printf(`<w:r>%s<w:fldChar w:fldCharType="end"/></w:r>`, runProp)
	} else {
		ew.printf(`<w:r>%s<w:t xml:space="preserve">%s</w:t></w:r>`, runProp, escapeXML(doc.Title))
	}
	ew.printf("</w:p></w:hdr>")
	return ew.err
}

func writeDOCXBody(w io.Writer, doc *Document) error {
	ew := &errWriter{w: w}
	ew.printf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n<w:document %s %s><w:body>", wNS, rNS)

	para := func(text string) {
		ew.printf(`<w:p>%s<w:r>%s<w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
			paraPr, runProp, escapeXML(expandTabs(text)))
	}

	if doc.Role == Removed {
		for _, l := range doc.Preamble {
			para(l)
		}
		if len(doc.Preamble) > 0 {
			para("")
		}
		if len(doc.Entries) == 0 {
			para(NothingRemoved)
		}
		for _, e := range doc.Entries {
			para(Location(e) + "  " + e.Text)
		}
	} else {
		for _, e := range doc.Entries {
			if e.Kind == PageBreak {
				ew.printf(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
				continue
			}
			para(e.Text)
		}
	}

	// A4, 2cm margins.
	ew.printf(`<w:sectPr><w:headerReference w:type="default" r:id="rIdHeader1"/>` +
		`<w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="567" w:footer="567" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`)
	return ew.err
}

func escapeXML(s string) string {
	var b strings.Builder
	// EscapeText only fails when the underlying writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
