package output

import (
	"io"
	"strings"

	"github.com/dshills/codereg/internal/engine"
)

// MarkdownWriter outputs a markdown summary suitable for attaching to a
// filing.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *engine.Report) error {
	ew := &errWriter{w: w}
	s := report.Summary

	ew.printf("## codereg run summary\n\n")
	if report.Title != "" {
		ew.printf("**%s**\n\n", mdEscape(report.Title))
	}
	ew.printf("Rules in effect: %s\n\n", report.Rules.Describe())

	ew.printf("| Metric | Value |\n")
	ew.printf("|--------|-------|\n")
	ew.printf("| Files | %d |\n", s.Files)
	ew.printf("| Source lines | %d |\n", s.Lines)
	ew.printf("| Pages | %d |\n", s.Pages)
	ew.printf("| Kept paragraphs | %d |\n", s.KeptParagraphs)
	ew.printf("| Removed paragraphs | %d |\n\n", s.RemovedParagraphs)

	if s.Removed.Total() > 0 {
		ew.printf("| Removed by | Count |\n")
		ew.printf("|------------|-------|\n")
		ew.printf("| File headers | %d |\n", s.Removed.Header)
		ew.printf("| Block comments | %d |\n", s.Removed.Block)
		ew.printf("| Foreign-language comments | %d |\n", s.Removed.Foreign)
		ew.printf("| Sampled comments | %d |\n\n", s.Removed.Sampled)
	}

	if len(report.Files) > 0 {
		ew.printf("<details>\n<summary>Files (%d)</summary>\n\n", len(report.Files))
		ew.printf("| File | Language | Lines | Kept | Dropped | Split | Start page |\n")
		ew.printf("|------|----------|-------|------|---------|-------|------------|\n")
		for _, f := range report.Files {
			ew.printf("| `%s` | %s | %d | %d | %d | %d | %d |\n",
				f.Path, f.Language, f.Lines, f.Kept, f.Dropped, f.Split, f.StartPage)
		}
		ew.printf("\n</details>\n\n")
	}

	if len(report.Warnings) > 0 {
		ew.printf("### Warnings\n\n")
		for _, wn := range report.Warnings {
			ew.printf("- **%s** `%s`: %s\n", wn.Kind, location(wn), mdEscape(wn.Message))
		}
		ew.println("")
	} else {
		ew.println("No warnings. :white_check_mark:")
		ew.println("")
	}

	ew.printf("*Run %s completed in %dms*\n", report.RunID, report.Timing.TotalMs)
	return ew.err
}

func mdEscape(s string) string {
	r := strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`")
	return r.Replace(s)
}

var (
	_ Writer = (*TextWriter)(nil)
	_ Writer = (*JSONWriter)(nil)
	_ Writer = (*YAMLWriter)(nil)
	_ Writer = (*MarkdownWriter)(nil)
)
