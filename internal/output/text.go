package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/codereg/internal/engine"
)

// TextWriter outputs a human-readable summary.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *engine.Report) error {
	ew := &errWriter{w: w}
	s := report.Summary

	title := report.Title
	if title == "" {
		title = "(untitled)"
	}
	ew.printf("codereg %s: %s\n", report.Version, title)
	ew.printf("Run: %s\n", report.RunID)
	ew.printf("Rules: %s\n", report.Rules.Describe())
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files: %d   Lines: %d   Pages: %d\n", s.Files, s.Lines, s.Pages)
	ew.printf("Kept paragraphs: %d   Removed paragraphs: %d\n", s.KeptParagraphs, s.RemovedParagraphs)
	if s.Removed.Total() > 0 {
		ew.printf("Removed by rule: header %d, block %d, foreign %d, sampled %d\n",
			s.Removed.Header, s.Removed.Block, s.Removed.Foreign, s.Removed.Sampled)
	}
	ew.println(strings.Repeat("─", 60))

	if len(report.Files) > 0 {
		width := 4
		for _, f := range report.Files {
			if len(f.Path) > width {
				width = len(f.Path)
			}
		}
		ew.printf("\n  %-*s  %6s  %6s  %6s  %5s\n", width, "File", "Lines", "Kept", "Drop", "Page")
		for _, f := range report.Files {
			ew.printf("  %-*s  %6d  %6d  %6d  %5d\n", width, f.Path, f.Lines, f.Kept+f.Split, f.Dropped+f.Split, f.StartPage)
		}
	}

	if len(report.Warnings) > 0 {
		ew.printf("\nWarnings (%d)\n", len(report.Warnings))
		ew.println(strings.Repeat("─", 40))
		for _, wn := range report.Warnings {
			ew.printf("  [%s] %s: %s\n", wn.Kind, location(wn), wn.Message)
		}
	}

	for _, o := range report.Outputs {
		ew.printf("\nWrote %s", o)
	}
	if len(report.Outputs) > 0 {
		ew.println("")
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (read: %dms, process: %dms, write: %dms)\n",
		report.Timing.TotalMs, report.Timing.ReadMs, report.Timing.ProcessMs, report.Timing.WriteMs)

	return ew.err
}

func location(w engine.Warning) string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d", w.File, w.Line)
	}
	return w.File
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
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
