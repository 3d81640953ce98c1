package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const ext = ".json"

// FileStat is what a scan learns about one source file.
type FileStat struct {
	Lines    int    `json:"lines"`
	Language string `json:"language"`
	NonText  bool   `json:"nonText,omitempty"`
}

// Key identifies one reading of a file. Any change to the file or to the
// options that shape its line count yields a different key.
type Key struct {
	Path      string
	Size      int64
	ModTime   time.Time
	KeepBlank bool
	Encoding  string
}

// Digest is the hex SHA-256 of the key fields.
func (k Key) Digest() string {
	h := sha256.New()
	for _, f := range []string{
		k.Path,
		strconv.FormatInt(k.Size, 10),
		strconv.FormatInt(k.ModTime.UnixNano(), 10),
		strconv.FormatBool(k.KeepBlank),
		strings.ToLower(k.Encoding),
	} {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type record struct {
	Stat    FileStat  `json:"stat"`
	Expires time.Time `json:"expires,omitzero"`
}

// Options configures Open.
type Options struct {
	Enabled bool
	// Dir defaults to DefaultDir.
	Dir string
	// TTL bounds the age of an entry. Zero keeps entries until purged.
	TTL time.Duration
}

// Store is a directory of scan results, one JSON file per key, sharded by
// the first two digits of the digest. A nil *Store is a disabled cache:
// lookups miss and writes are dropped.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// Open prepares the cache directory. It returns a nil Store when caching
// is disabled.
func Open(opts Options) (*Store, error) {
	if !opts.Enabled {
		return nil, nil
	}
	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{dir: dir, ttl: opts.TTL, now: time.Now}, nil
}

// Dir returns the cache directory, or "" for a disabled cache.
func (s *Store) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

// Lookup returns the stat saved under k. Expired and unreadable entries
// miss, and expired ones are deleted.
func (s *Store) Lookup(k Key) (FileStat, bool) {
	if s == nil {
		return FileStat{}, false
	}
	p := s.path(k.Digest())
	rec, err := readRecord(p)
	if err != nil {
		return FileStat{}, false
	}
	if s.expired(rec) {
		_ = os.Remove(p)
		return FileStat{}, false
	}
	return rec.Stat, true
}

// Save writes stat under k. The entry appears atomically, so concurrent
// scans never read a partial file.
func (s *Store) Save(k Key, stat FileStat) error {
	if s == nil {
		return nil
	}
	rec := record{Stat: stat}
	if s.ttl > 0 {
		rec.Expires = s.now().Add(s.ttl).UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	p := s.path(k.Digest())
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating cache shard: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".entry-*")
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}

// Usage describes the cache directory.
type Usage struct {
	Dir     string `json:"dir"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
	Expired int    `json:"expired"`
}

// Usage counts entries and their size on disk.
func (s *Store) Usage() (Usage, error) {
	u := Usage{Dir: s.Dir()}
	err := s.walk(func(p string, info fs.FileInfo, rec record, ok bool) error {
		u.Entries++
		u.Bytes += info.Size()
		if ok && s.expired(rec) {
			u.Expired++
		}
		return nil
	})
	return u, err
}

// Purge deletes entries and returns how many went. With expiredOnly set,
// live entries are kept. Files that are not entries are never touched.
func (s *Store) Purge(expiredOnly bool) (int, error) {
	n := 0
	err := s.walk(func(p string, _ fs.FileInfo, rec record, ok bool) error {
		if expiredOnly && ok && !s.expired(rec) {
			return nil
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// walk visits every entry file. ok is false when the entry cannot be
// decoded.
func (s *Store) walk(fn func(p string, info fs.FileInfo, rec record, ok bool) error) error {
	if s == nil {
		return nil
	}
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ext || !isShard(filepath.Base(filepath.Dir(p))) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rec, rerr := readRecord(p)
		return fn(p, info, rec, rerr == nil)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	return nil
}

func (s *Store) expired(rec record) bool {
	return !rec.Expires.IsZero() && s.now().After(rec.Expires)
}

func (s *Store) path(digest string) string {
	return filepath.Join(s.dir, digest[:2], digest+ext)
}

func isShard(name string) bool {
	if len(name) != 2 {
		return false
	}
	_, err := hex.DecodeString(name)
	return err == nil
}

func readRecord(p string) (record, error) {
	var rec record
	data, err := os.ReadFile(p)
	if err != nil {
		return rec, err
	}
	err = json.Unmarshal(data, &rec)
	return rec, err
}

// DefaultDir returns $XDG_CACHE_HOME/codereg, or the platform's user
// cache directory.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "codereg"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(base, "codereg", "cache"), nil
	}
	return filepath.Join(base, "codereg"), nil
}
