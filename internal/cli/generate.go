package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/codereg/internal/config"
	"github.com/dshills/codereg/internal/document"
	"github.com/dshills/codereg/internal/engine"
	"github.com/dshills/codereg/internal/logger"
	"github.com/dshills/codereg/internal/order"
	"github.com/dshills/codereg/internal/output"
	"github.com/dshills/codereg/internal/source"
)

// Source selection flags, shared by generate and scan.
var (
	flagInclude      string
	flagExclude      string
	flagMinLines     int
	flagKeepBlank    bool
	flagEncoding     string
	flagGit          bool
	flagOrder        string
	flagFiles        string
	flagLinesPerPage int
	flagWorkers      int
	flagStripHeader  bool
)

// Generate flags
var (
	flagName         string
	flagSoftwareVer  string
	flagStripBlock   bool
	flagStripForeign bool
	flagSample       int
	flagNativeScript string
	flagFormat       string
	flagOutDir       string
	flagPDFFont      string
	flagReport       string
	flagReportOut    string
)

// errNoFiles is returned when nothing is left to put in the document.
var errNoFiles = errors.New("no source files selected")

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagInclude, "include", "", "Include globs relative to root (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude globs relative to root (comma-separated)")
	cmd.Flags().IntVar(&flagMinLines, "min-lines", 0, "Skip files with fewer lines")
	cmd.Flags().BoolVar(&flagKeepBlank, "keep-blank", false, "Keep blank lines")
	cmd.Flags().StringVar(&flagEncoding, "encoding", "", "Source encoding (auto, utf-8, gbk, ...)")
	cmd.Flags().BoolVar(&flagGit, "git", false, "Only use files tracked by git")
	cmd.Flags().StringVar(&flagOrder, "order", "", "Order strategy (lines, importance, path)")
	cmd.Flags().StringVar(&flagFiles, "files", "", "Files to place first, in order (comma-separated)")
	cmd.Flags().IntVar(&flagLinesPerPage, "lines-per-page", 0, "Lines per page")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel workers")
	cmd.Flags().BoolVar(&flagStripHeader, "strip-header", false, "Remove the file-name header line")
}

var generateCmd = &cobra.Command{
	Use:   "generate [root]",
	Short: "Generate the filing document and the removed-content document",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fail(err)
			return
		}
		log := newLogger(cfg)

		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		report, err := generate(cmd.Context(), root, cfg, log, time.Now())
		if err != nil {
			fail(err)
			return
		}

		if err := output.WriteReport(report, cfg.Report.Format, flagReportOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
		if flagStrict && len(report.Warnings) > 0 {
			exitCode = ExitWarnings
		}
	},
}

func init() {
	addSourceFlags(generateCmd)
	f := generateCmd.Flags()
	f.StringVar(&flagName, "name", "", "Software name (default: root directory name)")
	f.StringVar(&flagSoftwareVer, "software-ver", "", "Software version")
	f.BoolVar(&flagStripBlock, "strip-block", false, "Remove multi-line block comments")
	f.BoolVar(&flagStripForeign, "strip-foreign", false, "Remove comments not written in the native script")
	f.IntVar(&flagSample, "sample", 0, "Remove 1 in N single-line comments (0 disables)")
	f.StringVar(&flagNativeScript, "native-script", "", "Unicode script of native comments (Han, Latin, ...)")
	f.StringVar(&flagFormat, "format", "", "Document format (docx, pdf, txt, md)")
	f.StringVar(&flagOutDir, "out-dir", "", "Output directory")
	f.StringVar(&flagPDFFont, "pdf-font", "", "TrueType font for PDF output")
	f.StringVar(&flagReport, "report", "", "Report format (text, json, yaml, markdown)")
	f.StringVar(&flagReportOut, "report-out", "", "Report file path (default: stdout)")
}

// generate runs the whole pipeline under root and writes the documents.
// The returned report lists the files written.
func generate(ctx context.Context, root string, cfg config.Config, log logger.Logger, now time.Time) (*engine.Report, error) {
	start := time.Now()

	if cfg.Software.Name == "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving root: %w", err)
		}
		cfg.Software.Name = filepath.Base(abs)
		log.Info("software name not set, using root directory", "name", cfg.Software.Name)
	}
	tagger, err := cfg.Tagger()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	strategy, err := order.ParseStrategy(cfg.Order.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	writer, err := document.GetWriter(cfg.Document.Format, document.Options{PDFFont: cfg.Document.PDFFont})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	paths, err := source.List(ctx, root, source.ListOptions{
		Include:    cfg.Source.Include,
		Exclude:    cfg.Source.Exclude,
		GitTracked: cfg.Source.GitTracked,
	})
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	log.Debug("listed sources", "root", root, "files", len(paths))

	set, err := source.Load(ctx, root, paths, source.LoadOptions{
		ReadOptions: source.ReadOptions{Encoding: cfg.Source.Encoding, KeepBlankLines: cfg.Source.KeepBlankLines},
		MinLines:    cfg.Source.MinLines,
	})
	if err != nil {
		return nil, fmt.Errorf("reading sources: %w", err)
	}
	warnings := engine.SourceWarnings(set, cfg.Source.MinLines)
	for _, w := range warnings {
		log.Warn("skipped file", "file", w.File, "reason", w.Message)
	}
	if len(set.Files) == 0 {
		return nil, fmt.Errorf("%w under %s", errNoFiles, root)
	}
	readMs := time.Since(start).Milliseconds()

	files := order.Sort(set.Files, func(f source.File) order.Key {
		return order.Key{Path: f.Path, Lines: f.LineCount()}
	}, strategy, cfg.Order.Files)

	rules := cfg.Rules()
	res, err := engine.Process(ctx, files, engine.Options{
		Rules:        rules,
		LinesPerPage: cfg.Document.LinesPerPage,
		Tagger:       tagger,
		Workers:      cfg.Workers,
		Title:        cfg.Title(),
		Version:      version,
	})
	if err != nil {
		return nil, err
	}
	report := res.Report
	report.Warnings = append(warnings, report.Warnings...)
	for _, w := range res.Report.Warnings {
		if w.Kind == engine.WarnIncompleteBlock {
			log.Warn("unterminated block comment", "file", w.File, "line", w.Line)
		}
	}

	writeStart := time.Now()
	if err := os.MkdirAll(cfg.Document.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	base := filepath.Join(cfg.Document.OutDir, outputBase(cfg.Software.Name, cfg.Software.Version, now))
	outputs := []document.Output{{Path: base + writer.Ext(), Document: res.Kept, Writer: writer}}
	if rules.Active() {
		outputs = append(outputs, document.Output{Path: base + "_removed" + writer.Ext(), Document: res.Removed, Writer: writer})
	}
	if err := document.SaveAll(outputs); err != nil {
		return nil, err
	}
	for _, o := range outputs {
		report.Outputs = append(report.Outputs, o.Path)
		log.Info("wrote document", "path", o.Path, "paragraphs", o.Document.Paragraphs())
	}

	report.Timing.ReadMs = readMs
	report.Timing.WriteMs = time.Since(writeStart).Milliseconds()
	report.Timing.TotalMs = time.Since(start).Milliseconds()
	log.Info("done", "files", report.Summary.Files, "pages", report.Summary.Pages,
		"removed", report.Summary.Removed.Total(), "run", report.RunID)
	return report, nil
}

// outputBase names the documents <name>_<version>_<YYYYMMDD>, with
// characters unsafe in file names replaced.
func outputBase(name, ver string, now time.Time) string {
	clean := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch r {
			case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', '\t':
				return '_'
			}
			return r
		}, strings.TrimSpace(s))
	}
	parts := []string{clean(name)}
	if v := clean(ver); v != "" {
		parts = append(parts, v)
	}
	parts = append(parts, now.Format("20060102"))
	return strings.Join(parts, "_")
}
