package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/codereg/internal/engine"
)

// Writer renders a report in one format.
type Writer interface {
	Write(w io.Writer, report *engine.Report) error
}

// Formats lists the supported report formats in the order help text shows
// them.
var Formats = []string{"text", "json", "yaml", "markdown"}

var writers = map[string]Writer{
	"text":     &TextWriter{},
	"json":     JSONWriter{},
	"yaml":     &YAMLWriter{},
	"markdown": &MarkdownWriter{},
	"md":       &MarkdownWriter{},
}

// GetWriter returns the writer for format. Names are case-insensitive.
func GetWriter(format string) (Writer, error) {
	if w, ok := writers[strings.ToLower(format)]; ok {
		return w, nil
	}
	return nil, fmt.Errorf("unsupported report format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// WriteReport renders report to outPath, or to stdout when outPath is
// empty.
func WriteReport(report *engine.Report, format, outPath string) (err error) {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	if outPath == "" {
		return writer.Write(os.Stdout, report)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing report file: %w", cerr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := writer.Write(bw, report); err != nil {
		return err
	}
	return bw.Flush()
}
