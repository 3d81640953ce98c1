package order

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dshills/codereg/internal/source"
)

// Strategy names a default ordering applied to files not placed by a user
// order.
type Strategy string

const (
	// ByLines sorts by line count descending, then path ascending.
	ByLines Strategy = "lines"
	// ByImportance sorts by a keyword score, backend before frontend, then
	// ByLines.
	ByImportance Strategy = "importance"
	// ByPath sorts by path ascending.
	ByPath Strategy = "path"
)

// ParseStrategy validates s. The empty string selects ByLines.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", ByLines:
		return ByLines, nil
	case ByImportance, ByPath:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown order strategy %q (valid: lines, importance, path)", s)
}

// Key is what ordering looks at.
type Key struct {
	Path  string
	Lines int
}

// Order returns files in the default order (line count descending, ties by
// path), with the files named in userOrder moved to the front in list
// order. Unknown and repeated userOrder entries are ignored.
func Order(files []source.File, userOrder []string) []source.File {
	return Sort(files, func(f source.File) Key {
		return Key{Path: f.Path, Lines: f.LineCount()}
	}, ByLines, userOrder)
}

// Sort is Order for any item type. It returns a new slice; items is not
// modified. The result is total and deterministic given distinct paths.
func Sort[T any](items []T, key func(T) Key, strategy Strategy, userOrder []string) []T {
	keys := make([]Key, len(items))
	byPath := make(map[string]int, len(items))
	for i, it := range items {
		keys[i] = key(it)
		byPath[keys[i].Path] = i
	}

	out := make([]T, 0, len(items))
	placed := make([]bool, len(items))
	for _, p := range userOrder {
		i, ok := byPath[p]
		if !ok || placed[i] {
			continue
		}
		placed[i] = true
		out = append(out, items[i])
	}

	rest := make([]int, 0, len(items)-len(out))
	for i := range items {
		if !placed[i] {
			rest = append(rest, i)
		}
	}
	less := lessFunc(strategy)
	sort.SliceStable(rest, func(a, b int) bool {
		return less(keys[rest[a]], keys[rest[b]])
	})
	for _, i := range rest {
		out = append(out, items[i])
	}
	return out
}

func lessFunc(s Strategy) func(a, b Key) bool {
	switch s {
	case ByPath:
		return func(a, b Key) bool { return a.Path < b.Path }
	case ByImportance:
		return func(a, b Key) bool {
			ga, gb := group(a.Path), group(b.Path)
			if ga != gb {
				return ga < gb
			}
			sa, sb := Importance(a.Path), Importance(b.Path)
			if sa != sb {
				return sa > sb
			}
			return byLines(a, b)
		}
	default:
		return byLines
	}
}

func byLines(a, b Key) bool {
	if a.Lines != b.Lines {
		return a.Lines > b.Lines
	}
	return a.Path < b.Path
}

var nameKeywords = []string{"main", "core", "app", "index", "server", "api", "config", "model", "controller"}

var dirWeights = []struct {
	word   string
	weight int
}{
	{"core", 5},
	{"model", 4},
	{"service", 3},
	{"controller", 2},
	{"util", 1},
}

// Importance scores a path: earlier name keywords weigh more, and
// well-known directory words add a bonus.
func Importance(p string) int {
	lower := strings.ToLower(p)
	name := path.Base(lower)
	score := 0
	for i, kw := range nameKeywords {
		if strings.Contains(name, kw) {
			score += 10 - i
		}
	}
	for _, dw := range dirWeights {
		if strings.Contains(lower, dw.word) {
			score += dw.weight
		}
	}
	return score
}

var frontendExt = map[string]bool{
	".js": true, ".ts": true, ".jsx": true, ".tsx": true, ".html": true,
	".css": true, ".vue": true, ".scss": true, ".less": true,
}

// group puts backend sources (0) ahead of frontend sources (1).
func group(p string) int {
	if frontendExt[strings.ToLower(path.Ext(p))] {
		return 1
	}
	return 0
}
