package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/codereg/internal/cache"
	"github.com/dshills/codereg/internal/comment"
)

// File is one source file read into memory. Path is slash-separated and
// relative to the listing root; it is the file's identity.
type File struct {
	Path     string   `json:"path"`
	Language string   `json:"language"`
	Lines    []string `json:"-"`
	// LineNo holds the 1-based line in the file of each entry of Lines.
	// When nil, Lines is the file verbatim.
	LineNo []int `json:"-"`
}

// LineCount returns the number of lines held.
func (f File) LineCount() int {
	return len(f.Lines)
}

// SourceLine returns the 1-based line number in the file of Lines[i].
func (f File) SourceLine(i int) int {
	if i < len(f.LineNo) {
		return f.LineNo[i]
	}
	return i + 1
}

// LoadOptions controls Load.
type LoadOptions struct {
	ReadOptions
	// MinLines excludes files with fewer lines. Zero disables the filter.
	MinLines int
}

// Set is the outcome of Load.
type Set struct {
	Files []File
	// Unreadable files were skipped with a warning.
	Unreadable []*ReadError
	// Short lists files dropped by the minimum-lines filter.
	Short []string
}

// Load reads every path (relative to root) up front, in order.
func Load(ctx context.Context, root string, paths []string, opts LoadOptions) (*Set, error) {
	set := &Set{}
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, numbers, err := ReadLines(filepath.Join(root, filepath.FromSlash(rel)), opts.ReadOptions)
		if err != nil {
			var re *ReadError
			if errors.As(err, &re) {
				re.Path = rel
				set.Unreadable = append(set.Unreadable, re)
				continue
			}
			return nil, err
		}
		if opts.MinLines > 0 && len(lines) < opts.MinLines {
			set.Short = append(set.Short, rel)
			continue
		}
		set.Files = append(set.Files, File{
			Path:     rel,
			Language: comment.LanguageFor(rel),
			Lines:    lines,
			LineNo:   numbers,
		})
	}
	return set, nil
}

// Stat is a scan result for one path.
type Stat struct {
	Path string `json:"path"`
	cache.FileStat
	Cached bool `json:"cached,omitempty"`
}

// Count computes line counts for paths without holding their content,
// consulting c for files whose size and modification time are unchanged.
// A nil store disables lookups.
func Count(ctx context.Context, root string, paths []string, opts ReadOptions, c *cache.Store, workers int) ([]Stat, error) {
	stats := make([]Stat, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st, err := countOne(root, rel, opts, c)
			if err != nil {
				return err
			}
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func countOne(root, rel string, opts ReadOptions, c *cache.Store) (Stat, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(abs)
	if err != nil {
		return Stat{}, &ReadError{Path: rel, Err: err}
	}
	key := cache.Key{
		Path:      abs,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		KeepBlank: opts.KeepBlankLines,
		Encoding:  opts.Encoding,
	}
	if fs, ok := c.Lookup(key); ok {
		return Stat{Path: rel, FileStat: fs, Cached: true}, nil
	}

	fs := cache.FileStat{Language: comment.LanguageFor(rel)}
	// Anything ReadLines rejects is reported as non-text; generate will
	// skip it with a warning.
	if lines, _, err := ReadLines(abs, opts); err != nil {
		fs.NonText = true
	} else {
		fs.Lines = len(lines)
	}
	// A failed write only costs a re-read next time.
	_ = c.Save(key, fs)
	return Stat{Path: rel, FileStat: fs}, nil
}
