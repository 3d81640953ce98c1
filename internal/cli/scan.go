package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/codereg/internal/config"
	"github.com/dshills/codereg/internal/logger"
	"github.com/dshills/codereg/internal/order"
	"github.com/dshills/codereg/internal/redact"
	"github.com/dshills/codereg/internal/source"
)

var (
	flagNoCache  bool
	flagScanJSON bool
)

// ScanEntry is one file in document order.
type ScanEntry struct {
	Path      string `json:"path"`
	Language  string `json:"language"`
	Lines     int    `json:"lines"`
	StartPage int    `json:"startPage"`
	Cached    bool   `json:"cached,omitempty"`
}

// ScanResult estimates the kept document before any comment is removed.
type ScanResult struct {
	Files        []ScanEntry `json:"files"`
	Skipped      []string    `json:"skipped,omitempty"`
	Lines        int         `json:"lines"`
	LinesPerPage int         `json:"linesPerPage"`
	Pages        int         `json:"pages"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "List source files in document order with line counts and estimated pages",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fail(err)
			return
		}
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		res, err := scan(cmd.Context(), root, cfg, newLogger(cfg))
		if err != nil {
			fail(err)
			return
		}
		if flagScanJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			err = enc.Encode(res)
		} else {
			err = writeScan(os.Stdout, res)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
		if flagStrict && len(res.Skipped) > 0 {
			exitCode = ExitWarnings
		}
	},
}

func init() {
	addSourceFlags(scanCmd)
	scanCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Do not use the line-count cache")
	scanCmd.Flags().BoolVar(&flagScanJSON, "json", false, "Print JSON")
}

func scan(ctx context.Context, root string, cfg config.Config, log logger.Logger) (*ScanResult, error) {
	strategy, err := order.ParseStrategy(cfg.Order.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	c, err := openCache(cfg, cfg.Cache.Enabled)
	if err != nil {
		return nil, err
	}

	paths, err := source.List(ctx, root, source.ListOptions{
		Include:    cfg.Source.Include,
		Exclude:    cfg.Source.Exclude,
		GitTracked: cfg.Source.GitTracked,
	})
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	stats, err := source.Count(ctx, root, paths,
		source.ReadOptions{Encoding: cfg.Source.Encoding, KeepBlankLines: cfg.Source.KeepBlankLines},
		c, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("counting lines: %w", err)
	}

	res := &ScanResult{LinesPerPage: cfg.Document.LinesPerPage}
	var kept []source.Stat
	hits := 0
	for _, st := range stats {
		if st.Cached {
			hits++
		}
		switch {
		case st.NonText:
			log.Warn("skipped file", "file", st.Path, "reason", "not a readable text file")
			res.Skipped = append(res.Skipped, st.Path)
		case cfg.Source.MinLines > 0 && st.Lines < cfg.Source.MinLines:
			log.Debug("skipped short file", "file", st.Path, "lines", st.Lines)
			res.Skipped = append(res.Skipped, st.Path)
		default:
			kept = append(kept, st)
		}
	}
	log.Debug("scanned sources", "files", len(stats), "cached", hits)

	kept = order.Sort(kept, func(s source.Stat) order.Key {
		return order.Key{Path: s.Path, Lines: s.Lines}
	}, strategy, cfg.Order.Files)

	header := 0
	if redact.HeaderAction(cfg.Rules()) == redact.ActionKeep {
		header = 1
	}
	names := make([]string, len(kept))
	counts := make([]int, len(kept))
	for i, st := range kept {
		names[i] = st.Path
		counts[i] = st.Lines + header
	}
	plan, err := order.NewPlan(names, counts, cfg.Document.LinesPerPage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	for i, st := range kept {
		res.Files = append(res.Files, ScanEntry{
			Path:      st.Path,
			Language:  st.Language,
			Lines:     st.Lines,
			StartPage: plan.Entries[i].StartPage,
			Cached:    st.Cached,
		})
		res.Lines += st.Lines
	}
	res.Pages = plan.Pages
	return res, nil
}

func writeScan(w io.Writer, res *ScanResult) error {
	ew := &errWriter{w: w}
	ew.printf("%-6s %-8s %-12s %s\n", "PAGE", "LINES", "LANGUAGE", "PATH")
	for _, f := range res.Files {
		ew.printf("%-6d %-8d %-12s %s\n", f.StartPage, f.Lines, f.Language, f.Path)
	}
	ew.printf("\n%d files, %d lines, about %d pages at %d lines per page\n",
		len(res.Files), res.Lines, res.Pages, res.LinesPerPage)
	if len(res.Skipped) > 0 {
		ew.printf("%d files skipped\n", len(res.Skipped))
	}
	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
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
