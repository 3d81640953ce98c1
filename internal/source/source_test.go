package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/dshills/codereg/internal/cache"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestList_DefaultIncludesKnownLanguages(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.go":              "package main\n",
		"pkg/util.py":          "x = 1\n",
		"README.unknownext":    "hello\n",
		"vendor/dep/dep.go":    "package dep\n",
		".git/config":          "[core]\n",
		"web/app.min.js":       "var a;\n",
		"web/src/component.ts": "let b = 1;\n",
	})

	files, err := List(context.Background(), root, ListOptions{
		Exclude: []string{"vendor/**", "*.min.js"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "pkg/util.py", "web/src/component.ts"}, files)
}

func TestList_Include(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.go":        "package a\n",
		"b/c.go":      "package c\n",
		"b/c_test.go": "package c\n",
		"d.py":        "pass\n",
	})

	files, err := List(context.Background(), root, ListOptions{
		Include: []string{"**/*.go"},
		Exclude: []string{"*_test.go"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b/c.go"}, files)
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"a/b/c.go", []string{"**/*.go"}, true},
		{"c.go", []string{"**/*.go"}, true},
		{"a/b/c.go", []string{"*.go"}, true},
		{"a/b/c.go", []string{"a/*.go"}, false},
		{"node_modules/x/y.js", []string{"node_modules/**"}, true},
		{"src/x.js", []string{"node_modules/**"}, false},
		{"x.go", nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesAny(tt.path, tt.patterns), "%s %v", tt.path, tt.patterns)
	}
}

func TestValidatePatterns(t *testing.T) {
	assert.NoError(t, ValidatePatterns([]string{"**/*.go", "vendor/**"}))
	assert.Error(t, ValidatePatterns([]string{"[abc"}))
}

func TestSplitLines(t *testing.T) {
	text := "a  \r\n\r\n  b\t\rc\n\n"
	lines, numbers := SplitLines(text, false)
	assert.Equal(t, []string{"a", "  b", "c"}, lines)
	assert.Equal(t, []int{1, 3, 4}, numbers)

	lines, numbers = SplitLines(text, true)
	assert.Equal(t, []string{"a", "", "  b", "c", ""}, lines)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, numbers)

	lines, numbers = SplitLines("", false)
	assert.Nil(t, lines)
	assert.Nil(t, numbers)
}

func TestLoad_KeepsPhysicalLineNumbers(t *testing.T) {
	root := writeTree(t, map[string]string{"a.py": "x = 1\n\n\n# secret\n"})
	set, err := Load(context.Background(), root, []string{"a.py"}, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, []string{"x = 1", "# secret"}, set.Files[0].Lines)
	assert.Equal(t, 4, set.Files[0].SourceLine(1))
	assert.Equal(t, 2, File{Lines: []string{"a", "b"}}.SourceLine(1))
}

func TestReadLines_UTF8BOM(t *testing.T) {
	root := writeTree(t, map[string]string{"x.py": "\xef\xbb\xbf# 注释\nx = 1\n"})
	lines, _, err := ReadLines(filepath.Join(root, "x.py"), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"# 注释", "x = 1"}, lines)
}

func TestReadLines_GBK(t *testing.T) {
	enc, err := htmlindex.Get("gbk")
	require.NoError(t, err)
	encoded, err := enc.NewEncoder().String("// 中文注释\nint a;\n")
	require.NoError(t, err)

	root := writeTree(t, map[string]string{"a.c": encoded})
	lines, _, err := ReadLines(filepath.Join(root, "a.c"), ReadOptions{Encoding: "gbk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"// 中文注释", "int a;"}, lines)

	_, _, err = ReadLines(filepath.Join(root, "a.c"), ReadOptions{Encoding: "utf-8"})
	var re *ReadError
	require.ErrorAs(t, err, &re)
}

func TestReadLines_Binary(t *testing.T) {
	root := writeTree(t, map[string]string{
		"img.png": "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01",
	})
	_, _, err := ReadLines(filepath.Join(root, "img.png"), ReadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotText))
}

func TestReadLines_Missing(t *testing.T) {
	_, _, err := ReadLines(filepath.Join(t.TempDir(), "nope.go"), ReadOptions{})
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidEncoding(t *testing.T) {
	assert.True(t, ValidEncoding("auto"))
	assert.True(t, ValidEncoding("GBK"))
	assert.True(t, ValidEncoding("shift_jis"))
	assert.False(t, ValidEncoding("klingon-8"))
}

func TestLoad(t *testing.T) {
	root := writeTree(t, map[string]string{
		"big.go":   "a\nb\nc\nd\n",
		"small.go": "a\n",
		"bin.go":   "\x00\x01\x02\x03",
	})

	set, err := Load(context.Background(), root, []string{"big.go", "small.go", "bin.go"}, LoadOptions{MinLines: 2})
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, "big.go", set.Files[0].Path)
	assert.Equal(t, "go", set.Files[0].Language)
	assert.Equal(t, 4, set.Files[0].LineCount())
	assert.Equal(t, []string{"small.go"}, set.Short)
	require.Len(t, set.Unreadable, 1)
	assert.Equal(t, "bin.go", set.Unreadable[0].Path)
}

func TestLoad_Cancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.go": "x\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, root, []string{"a.go"}, LoadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCount_UsesCache(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.go": "1\n2\n3\n",
		"b.py": "\x00\x00",
	})
	c, err := cache.Open(cache.Options{Enabled: true, Dir: t.TempDir()})
	require.NoError(t, err)

	paths := []string{"a.go", "b.py"}
	first, err := Count(context.Background(), root, paths, ReadOptions{}, c, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 3, first[0].Lines)
	assert.False(t, first[0].Cached)
	assert.True(t, first[1].NonText)

	second, err := Count(context.Background(), root, paths, ReadOptions{}, c, 2)
	require.NoError(t, err)
	assert.True(t, second[0].Cached)
	assert.Equal(t, 3, second[0].Lines)
	assert.Equal(t, "python", second[1].Language)

	// A different source encoding can change the count, so it misses.
	third, err := Count(context.Background(), root, paths, ReadOptions{Encoding: "gbk"}, c, 2)
	require.NoError(t, err)
	assert.False(t, third[0].Cached)
}
