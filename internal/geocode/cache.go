package geocode

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Cache stores geocoded places on disk, one JSON file per query.
type Cache struct {
	dir      string
	maxAge   time.Duration
	maxFiles int
	now      func() time.Time
}

type cacheEntry struct {
	Query    string    `json:"query"`
	Place    Place     `json:"place"`
	StoredAt time.Time `json:"stored_at"`
}

// NewCache creates a Cache in dir. Entries older than maxAge are ignored and
// at most maxFiles entries are kept.
func NewCache(dir string, maxAge time.Duration, maxFiles int) *Cache {
	if maxFiles <= 0 {
		maxFiles = 500
	}
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	return &Cache{
		dir:      dir,
		maxAge:   maxAge,
		maxFiles: maxFiles,
		now:      time.Now,
	}
}

// cacheKey normalizes a query so that case and spacing variants share a file.
func cacheKey(query string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := sha256.Sum256([]byte(norm))
	return "place_" + hex.EncodeToString(sum[:16]) + ".json"
}

// Get returns the cached place for query. The boolean is false on a miss,
// including expired entries.
func (c *Cache) Get(query string) (Place, bool, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, cacheKey(query)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Place{}, false, nil
		}
		return Place{}, false, fmt.Errorf("reading cache file: %w", err)
	}

	var e cacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return Place{}, false, fmt.Errorf("decoding cache file: %w", err)
	}
	if c.now().Sub(e.StoredAt) > c.maxAge {
		return Place{}, false, nil
	}
	return e.Place, true, nil
}

// Put stores place for query and prunes the oldest entries beyond maxFiles.
func (c *Cache) Put(query string, place Place) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.Marshal(cacheEntry{Query: query, Place: place, StoredAt: c.now().UTC()})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	path := filepath.Join(c.dir, cacheKey(query))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming cache file: %w", err)
	}

	return c.prune()
}

type cacheFile struct {
	name    string
	modTime time.Time
}

func (c *Cache) listFiles() ([]cacheFile, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing cache dir: %w", err)
	}

	var files []cacheFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "place_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, cacheFile{name: name, modTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	return files, nil
}

func (c *Cache) prune() error {
	files, err := c.listFiles()
	if err != nil {
		return err
	}

	if len(files) <= c.maxFiles {
		return nil
	}

	// Oldest first.
	for _, f := range files[:len(files)-c.maxFiles] {
		if err := os.Remove(filepath.Join(c.dir, f.name)); err != nil {
			return fmt.Errorf("pruning cache file %s: %w", f.name, err)
		}
	}

	return nil
}
