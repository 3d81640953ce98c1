package order

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codereg/internal/source"
)

func file(path string, n int) source.File {
	return source.File{Path: path, Lines: make([]string, n)}
}

func paths(files []source.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestOrder_Default(t *testing.T) {
	files := []source.File{file("b.go", 10), file("a.go", 10), file("c.go", 30), file("d.go", 5)}
	got := Order(files, nil)
	assert.Equal(t, []string{"c.go", "a.go", "b.go", "d.go"}, paths(got))
	assert.Equal(t, "b.go", files[0].Path, "input must not be reordered")
}

func TestOrder_UserOrder(t *testing.T) {
	files := []source.File{file("a.go", 1), file("b.go", 2), file("c.go", 3), file("d.go", 4)}
	tests := []struct {
		name string
		user []string
		want []string
	}{
		{"partial", []string{"a.go", "c.go"}, []string{"a.go", "c.go", "d.go", "b.go"}},
		{"full", []string{"b.go", "a.go", "d.go", "c.go"}, []string{"b.go", "a.go", "d.go", "c.go"}},
		{"unknown ignored", []string{"zzz.go", "b.go"}, []string{"b.go", "d.go", "c.go", "a.go"}},
		{"duplicates ignored", []string{"a.go", "a.go", "b.go", "a.go"}, []string{"a.go", "b.go", "d.go", "c.go"}},
		{"empty", nil, []string{"d.go", "c.go", "b.go", "a.go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths(Order(files, tt.user)))
		})
	}
}

func TestOrder_StableUnderPermutation(t *testing.T) {
	files := []source.File{
		file("x/a.go", 7), file("x/b.go", 7), file("c.go", 9), file("d.go", 1), file("e.go", 7),
	}
	want := paths(Order(files, []string{"d.go"}))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]source.File(nil), files...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, paths(Order(shuffled, []string{"d.go"})))
	}
}

func TestSort_Strategies(t *testing.T) {
	items := []Key{
		{Path: "web/index.js", Lines: 500},
		{Path: "pkg/util/strings.go", Lines: 50},
		{Path: "cmd/main.go", Lines: 20},
		{Path: "internal/core/engine.go", Lines: 100},
		{Path: "README.py", Lines: 900},
	}
	id := func(k Key) Key { return k }

	byPath := Sort(items, id, ByPath, nil)
	assert.Equal(t, "README.py", byPath[0].Path)
	assert.Equal(t, "web/index.js", byPath[4].Path)

	imp := Sort(items, id, ByImportance, nil)
	var got []string
	for _, k := range imp {
		got = append(got, k.Path)
	}
	// main (10) > core dir (5) > util dir (1) > none; frontend last.
	assert.Equal(t, []string{
		"cmd/main.go", "internal/core/engine.go", "pkg/util/strings.go", "README.py", "web/index.js",
	}, got)
}

func TestImportance(t *testing.T) {
	assert.Equal(t, 10, Importance("cmd/main.go"))
	assert.Equal(t, 9+5, Importance("core.py"))
	assert.Equal(t, 3+4, Importance("models/model.go"))
	assert.Equal(t, 0, Importance("docs/readme.go"))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, ByLines, s)
	s, err = ParseStrategy("importance")
	require.NoError(t, err)
	assert.Equal(t, ByImportance, s)
	_, err = ParseStrategy("random")
	assert.Error(t, err)
}
