package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codereg/internal/redact"
)

func keptDoc() *Document {
	return &Document{
		Role:  Kept,
		Title: "Demo 1.0",
		Entries: []Entry{
			{File: "a.go", Line: HeaderLine, Text: "a.go"},
			{File: "a.go", Line: 0, Text: "package a"},
			{Kind: PageBreak},
			{File: "a.go", Line: 1, Text: "func A() {}\t<&>"},
			{File: "a.go", Line: 2, Part: Prefix, Text: "x := 1"},
		},
	}
}

func removedDoc() *Document {
	return &Document{
		Role:     Removed,
		Title:    "Demo 1.0",
		Preamble: []string{"Removed: block comments"},
		Entries: []Entry{
			{File: "a.go", Line: 2, Part: Suffix, Text: " // one", Reason: redact.ReasonSampled},
			{File: "b.go", Line: HeaderLine, Text: "b.go", Reason: redact.ReasonHeader},
		},
	}
}

func TestDocument_Counts(t *testing.T) {
	d := keptDoc()
	assert.Equal(t, 4, d.Paragraphs())
	assert.Equal(t, 2, d.Pages())
	assert.Equal(t, 0, (&Document{}).Pages())
	assert.Len(t, Pages(d), 2)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "a.go:3+", Location(Entry{File: "a.go", Line: 2, Part: Suffix}))
	assert.Equal(t, "a.go:3+", Location(Entry{File: "a.go", Line: 2, Part: Prefix}))
	assert.Equal(t, "a.go:1", Location(Entry{File: "a.go", Line: 0}))
	assert.Equal(t, "b.go:header", Location(Entry{File: "b.go", Line: HeaderLine}))
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextWriter{}).Write(&buf, keptDoc()))
	want := "Demo 1.0    Page 1\n\na.go\npackage a\n" +
		"\fDemo 1.0    Page 2\n\nfunc A() {}\t<&>\nx := 1\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, (&TextWriter{}).Write(&buf, removedDoc()))
	assert.Equal(t, "Demo 1.0\nRemoved: block comments\n\na.go:3+\t // one\nb.go:header\tb.go\n", buf.String())

	buf.Reset()
	require.NoError(t, (&TextWriter{}).Write(&buf, &Document{Role: Removed}))
	assert.Contains(t, buf.String(), NothingRemoved)
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownWriter{}).Write(&buf, keptDoc()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Demo 1.0\n"))
	assert.Contains(t, out, "## Page 2")
	assert.Contains(t, out, "\n---\n")

	buf.Reset()
	doc := &Document{Role: Kept, Entries: []Entry{{Text: "s := ```x```"}}}
	require.NoError(t, (&MarkdownWriter{}).Write(&buf, doc))
	assert.Contains(t, buf.String(), "````\ns := ```x```\n````")
}

func TestDOCXWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&DOCXWriter{}).Write(&buf, keptDoc()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	for _, n := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/header1.xml", "word/_rels/document.xml.rels"} {
		require.Contains(t, names, n)
		assertWellFormed(t, names[n])
	}

	body := readZip(t, names["word/document.xml"])
	assert.Contains(t, body, `<w:br w:type="page"/>`)
	assert.Contains(t, body, "func A() {}    &lt;&amp;&gt;")
	assert.Contains(t, readZip(t, names["word/header1.xml"]), "Demo 1.0")
}

func readZip(t *testing.T, f *zip.File) string {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func assertWellFormed(t *testing.T, f *zip.File) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(readZip(t, f)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, f.Name)
	}
}

func TestPDFWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PDFWriter{}).Write(&buf, keptDoc()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, (&PDFWriter{}).Write(&buf, removedDoc()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	err := (&PDFWriter{FontPath: filepath.Join(t.TempDir(), "missing.ttf")}).Write(&buf, keptDoc())
	assert.Error(t, err)
}

func TestGetWriter(t *testing.T) {
	for _, f := range Formats {
		w, err := GetWriter(f, Options{})
		require.NoError(t, err, f)
		assert.Equal(t, "."+f, w.Ext())
	}
	_, err := GetWriter("rtf", Options{})
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Ext() string { return ".bad" }
func (failingWriter) Write(io.Writer, *Document) error {
	return errors.New("boom")
}

func TestSaveAll(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "out", "demo.txt")
	removed := filepath.Join(dir, "out", "demo_removed.txt")

	err := SaveAll([]Output{
		{Path: kept, Document: keptDoc(), Writer: &TextWriter{}},
		{Path: removed, Document: removedDoc(), Writer: &TextWriter{}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(kept)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package a")
	_, err = os.Stat(removed)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files left behind")
}

func TestSaveAll_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")

	err := SaveAll([]Output{
		{Path: good, Document: keptDoc(), Writer: &TextWriter{}},
		{Path: bad, Document: keptDoc(), Writer: failingWriter{}},
	})
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, bad, we.Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
