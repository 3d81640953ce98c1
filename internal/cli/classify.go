package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/codereg/internal/comment"
	"github.com/dshills/codereg/internal/config"
	"github.com/dshills/codereg/internal/redact"
	"github.com/dshills/codereg/internal/source"
)

var flagLang string

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Show how each line of a file is classified and what the rules would remove",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fail(err)
			return
		}
		if err := classify(os.Stdout, args[0], flagLang, cfg); err != nil {
			fail(err)
		}
	},
}

func init() {
	f := classifyCmd.Flags()
	f.StringVar(&flagLang, "lang", "", "Language syntax to use (default: from file extension)")
	f.StringVar(&flagEncoding, "encoding", "", "Source encoding (auto, utf-8, gbk, ...)")
	f.BoolVar(&flagKeepBlank, "keep-blank", false, "Keep blank lines")
	f.BoolVar(&flagStripBlock, "strip-block", false, "Remove multi-line block comments")
	f.BoolVar(&flagStripForeign, "strip-foreign", false, "Remove comments not written in the native script")
	f.IntVar(&flagSample, "sample", 0, "Remove 1 in N single-line comments (0 disables)")
	f.StringVar(&flagNativeScript, "native-script", "", "Unicode script of native comments (Han, Latin, ...)")
}

func classify(w io.Writer, path, lang string, cfg config.Config) error {
	lines, numbers, err := source.ReadLines(path, source.ReadOptions{
		Encoding:       cfg.Source.Encoding,
		KeepBlankLines: cfg.Source.KeepBlankLines,
	})
	if err != nil {
		return err
	}
	tagger, err := cfg.Tagger()
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	if lang == "" {
		lang = comment.LanguageFor(path)
	}

	classified, _ := comment.NewClassifier(comment.Lookup(lang), tagger).File(lines)
	spans := comment.Detect(classified, tagger)
	decisions := redact.Decide(classified, spans, cfg.Rules())

	ew := &errWriter{w: w}
	ew.printf("%s (%s), rules: %s\n\n", path, lang, cfg.Rules().Describe())
	ew.printf("%-5s %-16s %-8s %-6s %-18s %s\n", "LINE", "LABEL", "TAG", "SPLIT", "ACTION", "TEXT")
	for i, l := range classified {
		split := ""
		if l.Label == comment.Mixed || l.Split > 0 {
			split = fmt.Sprint(l.Split)
		}
		action := decisions[i].Action.String()
		if r := decisions[i].Reason; r != redact.ReasonNone {
			action += ":" + r.String()
		}
		tag := ""
		if l.Label != comment.Code {
			tag = l.Lang.String()
		}
		ew.printf("%-5d %-16s %-8s %-6s %-18s %s\n", numbers[i], l.Label, tag, split, action, l.Text)
	}

	if len(spans) > 0 {
		ew.printf("\nspans:\n")
		for _, s := range spans {
			note := ""
			if s.Incomplete {
				note = " (not closed)"
			}
			if s.ContinuesMixed {
				note += " (opened after code)"
			}
			ew.printf("  %d-%d %s %s%s\n", numbers[s.Start], numbers[s.End], s.Kind, s.Lang, note)
		}
	}
	return ew.err
}
