package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DefaultDir returns $XDG_CACHE_HOME/app, or ~/.cache/app when the
// variable is unset.
func DefaultDir(app string) (string, error) {
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, app), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", app), nil
}

// FileCache stores one JSON file per key, sharded by the first two hex
// digits of the key hash. Writes go through a temporary file and a rename,
// so a concurrent reader (the preview host re-rendering while the CLI
// exports) never sees a partial entry.
type FileCache struct {
	dir string
}

// NewFileCache opens a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the entry for key. Unreadable and expired entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path := c.path(key)
	entry, err := readEntry(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case errors.Is(err, errCorrupt):
		_ = os.Remove(path)
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	if entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes data under key. A ttl of zero never expires.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	buf, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. A missing key is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every entry along with the shard directories and returns
// the number of entries deleted.
func (c *FileCache) Clear() (int, error) {
	return c.sweep(func(string) bool { return true })
}

// Prune removes expired and unreadable entries, keeping live ones. It
// returns the number of entries deleted.
func (c *FileCache) Prune() (int, error) {
	now := time.Now()
	return c.sweep(func(path string) bool {
		entry, err := readEntry(path)
		return err != nil || entry.expired(now)
	})
}

// sweep deletes the entry files for which drop returns true, then removes
// any shard directory left empty.
func (c *FileCache) sweep(drop func(path string) bool) (int, error) {
	removed := 0
	var shards []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil || path == c.dir:
			return nil
		case d.IsDir():
			shards = append(shards, path)
		case filepath.Ext(path) == ".json" && drop(path):
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	for i := len(shards) - 1; i >= 0; i-- {
		_ = os.Remove(shards[i]) // fails on non-empty shards
	}
	return removed, err
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var errCorrupt = errors.New("corrupt cache entry")

func readEntry(path string) (fileEntry, error) {
	var entry fileEntry
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, errCorrupt
	}
	return entry, nil
}

var _ Cache = (*FileCache)(nil)
