package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/codereg/internal/assemble"
	"github.com/dshills/codereg/internal/comment"
	"github.com/dshills/codereg/internal/document"
	"github.com/dshills/codereg/internal/order"
	"github.com/dshills/codereg/internal/redact"
	"github.com/dshills/codereg/internal/source"
)

// DefaultWorkers bounds per-file processing when Options.Workers is unset.
const DefaultWorkers = 4

// Options configures Process. Everything the pipeline depends on is passed
// here; nothing is read from global state.
type Options struct {
	Rules        redact.Rules
	LinesPerPage int
	// Tagger tags comment text; nil selects comment.DefaultTagger.
	Tagger  comment.Tagger
	Workers int
	// Title is the page header of the kept document.
	Title string
	// Version is recorded in the report.
	Version string
}

// Validate reports option errors before any file is processed.
func (o Options) Validate() error {
	if err := o.Rules.Validate(); err != nil {
		return err
	}
	if o.LinesPerPage < 1 {
		return fmt.Errorf("%w, got %d", order.ErrInvalidPageSize, o.LinesPerPage)
	}
	return nil
}

// Result is the outcome of a successful run.
type Result struct {
	Kept    *document.Document
	Removed *document.Document
	Plan    order.Plan
	Report  *Report
}

type fileResult struct {
	fd         assemble.FileDecisions
	incomplete []comment.Span
}

// Process classifies, detects and decides every file concurrently, then
// assembles the two documents in file order. files must already be in
// document order. A cancelled context aborts the run with no result.
func Process(ctx context.Context, files []source.File, opts Options) (*Result, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	tagger := opts.Tagger
	if tagger == nil {
		tagger = comment.DefaultTagger()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processFile(f, tagger, opts.Rules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header := redact.HeaderAction(opts.Rules)
	fds := make([]assemble.FileDecisions, len(results))
	paths := make([]string, len(results))
	counts := make([]int, len(results))
	for i, r := range results {
		fds[i] = r.fd
		paths[i] = r.fd.File.Path
		counts[i] = assemble.KeptLines(r.fd, header)
	}
	plan, err := order.NewPlan(paths, counts, opts.LinesPerPage)
	if err != nil {
		return nil, err
	}
	kept, removed, err := assemble.Assemble(fds, plan, header)
	if err != nil {
		return nil, fmt.Errorf("assembling documents: %w", err)
	}
	kept.Title = opts.Title
	removed.Title = opts.Title
	removed.Preamble = Preamble(opts.Rules)

	report := buildReport(results, kept, removed, plan, opts)
	report.Timing.ProcessMs = time.Since(start).Milliseconds()
	report.Timing.TotalMs = report.Timing.ProcessMs

	return &Result{Kept: kept, Removed: removed, Plan: plan, Report: report}, nil
}

func processFile(f source.File, tagger comment.Tagger, rules redact.Rules) fileResult {
	c := comment.NewClassifier(comment.Lookup(f.Language), tagger)
	lines, _ := c.File(f.Lines)
	spans := comment.Detect(lines, tagger)

	var incomplete []comment.Span
	for _, s := range spans {
		if s.Incomplete {
			incomplete = append(incomplete, s)
		}
	}
	return fileResult{
		fd:         assemble.FileDecisions{File: f, Decisions: redact.Decide(lines, spans, rules)},
		incomplete: incomplete,
	}
}

func buildReport(results []fileResult, kept, removed *document.Document, plan order.Plan, opts Options) *Report {
	r := &Report{
		Tool:     "codereg",
		Version:  opts.Version,
		RunID:    uuid.NewString(),
		Title:    opts.Title,
		Rules:    opts.Rules,
		Files:    make([]FileStats, len(results)),
		Warnings: []Warning{},
	}

	for i, res := range results {
		f := res.fd.File
		fs := FileStats{Path: f.Path, Language: f.Language, Lines: f.LineCount()}
		for _, d := range res.fd.Decisions {
			switch d.Action {
			case redact.ActionKeep:
				fs.Kept++
			case redact.ActionDrop:
				fs.Dropped++
			case redact.ActionSplit, redact.ActionSplitHead:
				fs.Split++
			}
		}
		r.Files[i] = fs
		r.Summary.Lines += fs.Lines

		for _, s := range res.incomplete {
			r.Warnings = append(r.Warnings, Warning{
				Kind:    WarnIncompleteBlock,
				File:    f.Path,
				Line:    f.SourceLine(s.Start),
				Message: "block comment is not closed before end of file",
			})
		}
	}
	statsFromPlan(r.Files, plan)

	for _, e := range removed.Entries {
		r.Summary.Removed.add(e.Reason)
	}
	r.Summary.Files = len(results)
	r.Summary.KeptParagraphs = kept.Paragraphs()
	r.Summary.RemovedParagraphs = removed.Paragraphs()
	r.Summary.Pages = kept.Pages()
	return r
}

// Preamble describes the rules in effect for the removed document.
func Preamble(rules redact.Rules) []string {
	return []string{
		"Content removed from the filing document.",
		"Rules in effect: " + rules.Describe() + ".",
		"Each entry is path:line; a trailing + marks the removed part of a line whose other part was kept.",
	}
}

func fmtShort(minLines int) string {
	return fmt.Sprintf("fewer than %d lines", minLines)
}
