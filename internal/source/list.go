package source

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dshills/codereg/internal/comment"
)

// ListOptions controls which files under a root are candidates.
type ListOptions struct {
	// Include patterns are doublestar globs relative to the root. When empty,
	// every file with a recognised source extension is included.
	Include []string
	// Exclude patterns win over Include. A directory matching an exclude
	// pattern is not descended into.
	Exclude []string
	// GitTracked lists files with `git ls-files` instead of walking the tree.
	GitTracked bool
}

// List returns slash-separated paths relative to root, sorted.
func List(ctx context.Context, root string, opts ListOptions) ([]string, error) {
	var candidates []string
	var err error
	if opts.GitTracked {
		candidates, err = gitFiles(ctx, root)
	} else {
		candidates, err = walkFiles(ctx, root, opts.Exclude)
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, rel := range candidates {
		if len(opts.Include) > 0 {
			if !MatchesAny(rel, opts.Include) {
				continue
			}
		} else if comment.LanguageFor(rel) == comment.Fallback.Language {
			continue
		}
		if MatchesAny(rel, opts.Exclude) {
			continue
		}
		files = append(files, rel)
	}

	sort.Strings(files)
	return files, nil
}

func walkFiles(ctx context.Context, root string, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if d.Name() == ".git" || MatchesAny(rel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

func gitFiles(ctx context.Context, root string) ([]string, error) {
	out, err := gitOutput(ctx, root, "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// MatchesAny reports whether a slash-separated relative path matches any
// pattern. Patterns without a separator are also tried against the base
// name, so "*.min.js" matches at any depth.
func MatchesAny(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			matched, err = doublestar.Match(pattern, base)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

// ValidatePatterns reports the first malformed glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
