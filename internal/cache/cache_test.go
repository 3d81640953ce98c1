package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(Options{Enabled: true, Dir: t.TempDir(), TTL: ttl})
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func key(name string) Key {
	return Key{Path: "/src/" + name, Size: 10, ModTime: time.Unix(1700000000, 0)}
}

func TestStore_SaveLookup(t *testing.T) {
	s := open(t, 24*time.Hour)
	want := FileStat{Lines: 120, Language: "go"}

	_, ok := s.Lookup(key("a.go"))
	assert.False(t, ok, "miss before save")

	require.NoError(t, s.Save(key("a.go"), want))
	got, ok := s.Lookup(key("a.go"))
	require.True(t, ok)
	assert.Equal(t, want, got)

	d := key("a.go").Digest()
	assert.FileExists(t, filepath.Join(s.Dir(), d[:2], d+".json"))
}

func TestStore_Expiry(t *testing.T) {
	s := open(t, time.Hour)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	require.NoError(t, s.Save(key("a.go"), FileStat{Lines: 1}))
	_, ok := s.Lookup(key("a.go"))
	assert.True(t, ok)

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, ok = s.Lookup(key("a.go"))
	assert.False(t, ok)
	d := key("a.go").Digest()
	assert.NoFileExists(t, filepath.Join(s.Dir(), d[:2], d+".json"), "expired entry is removed on read")
}

func TestStore_NoTTLNeverExpires(t *testing.T) {
	s := open(t, 0)
	require.NoError(t, s.Save(key("a.go"), FileStat{Lines: 1}))
	s.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	_, ok := s.Lookup(key("a.go"))
	assert.True(t, ok)
}

func TestStore_Disabled(t *testing.T) {
	s, err := Open(Options{Enabled: false, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Nil(t, s)

	assert.NoError(t, s.Save(key("a.go"), FileStat{Lines: 3}))
	_, ok := s.Lookup(key("a.go"))
	assert.False(t, ok)
	n, err := s.Purge(false)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, s.Dir())
}

func TestStore_Purge(t *testing.T) {
	s := open(t, time.Hour)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(key(name), FileStat{Lines: 1}))
	}
	s.now = func() time.Time { return base.Add(30 * time.Minute) }
	require.NoError(t, s.Save(key("d"), FileStat{Lines: 1}))
	// Unrelated files in the directory are left alone.
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "keep.json"), []byte("{}"), 0o644))

	s.now = func() time.Time { return base.Add(90 * time.Minute) }
	u, err := s.Usage()
	require.NoError(t, err)
	assert.Equal(t, 4, u.Entries)
	assert.Equal(t, 3, u.Expired)
	assert.Positive(t, u.Bytes)
	assert.Equal(t, s.Dir(), u.Dir)

	n, err := s.Purge(true)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, ok := s.Lookup(key("d"))
	assert.True(t, ok)

	n, err = s.Purge(false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(s.Dir(), "keep.json"))
}

func TestStore_UsageEmpty(t *testing.T) {
	s := open(t, 0)
	u, err := s.Usage()
	require.NoError(t, err)
	assert.Zero(t, u.Entries)
}

func TestKey_Digest(t *testing.T) {
	k := key("a.go")
	assert.Equal(t, k.Digest(), key("a.go").Digest())
	assert.Len(t, k.Digest(), 64)

	variants := map[string]Key{
		"size":     {Path: k.Path, Size: 11, ModTime: k.ModTime},
		"mtime":    {Path: k.Path, Size: k.Size, ModTime: k.ModTime.Add(time.Second)},
		"path":     {Path: "/src/b.go", Size: k.Size, ModTime: k.ModTime},
		"blank":    {Path: k.Path, Size: k.Size, ModTime: k.ModTime, KeepBlank: true},
		"encoding": {Path: k.Path, Size: k.Size, ModTime: k.ModTime, Encoding: "gbk"},
	}
	for name, other := range variants {
		assert.NotEqual(t, k.Digest(), other.Digest(), "changing %s changes the digest", name)
	}
	assert.Equal(t,
		Key{Path: k.Path, Encoding: "GBK"}.Digest(),
		Key{Path: k.Path, Encoding: "gbk"}.Digest(),
		"encoding labels are case-insensitive")
}

func TestDefaultDir_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "codereg"), dir)
}
