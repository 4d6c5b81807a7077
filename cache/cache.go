/*
File    : mana/cache/cache.go
*/

// Package cache implements the content-addressed on-disk cache for
// incremental recompilation. The cache directory holds one .cpp file per
// cached emission, named by content hash, plus a pipe-delimited
// cache_index.txt with records `file_path|content_hash|timestamp`. A
// lookup is a hit when the recorded hash matches a fresh hash of the
// current source text.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultSubdir is the fixed cache directory name under the platform
// temp dir.
const DefaultSubdir = "mana_cache"

// indexFileName is the pipe-delimited index in the cache directory.
const indexFileName = "cache_index.txt"

// ComputeHash hashes source content with a positional Fowler-Noll-Vo
// style mix: stable within one build, not cryptographic.
func ComputeHash(content string) string {
	var hash uint64
	pos := uint64(1)
	for i := 0; i < len(content); i++ {
		hash = hash*31 + uint64(content[i])*pos
		pos++
	}
	return strconv.FormatUint(hash, 16)
}

// Entry is one cached emission record.
type Entry struct {
	FilePath    string
	ContentHash string
	Timestamp   int64
}

// Cache is the on-disk compilation cache. Writes to the index serialize
// through this single writer.
type Cache struct {
	Dir     string
	Entries map[string]Entry
}

// DefaultDir returns the platform cache location (temp dir + fixed
// subdirectory), honoring the MANA_CACHE_DIR override.
func DefaultDir() string {
	if dir := os.Getenv("MANA_CACHE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), DefaultSubdir)
}

// Open creates (if needed) and loads the cache at dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	c := &Cache{Dir: dir, Entries: make(map[string]Entry)}
	if err := c.loadIndex(); err != nil {
		return nil, err
	}
	return c, nil
}

// IsCached reports whether a file's recorded hash matches a fresh hash of
// its current content.
func (c *Cache) IsCached(filePath, content string) bool {
	entry, ok := c.Entries[filePath]
	if !ok {
		return false
	}
	return entry.ContentHash == ComputeHash(content)
}

// Get returns the cached emission for a file, or false when missing.
func (c *Cache) Get(filePath string) (string, bool) {
	entry, ok := c.Entries[filePath]
	if !ok {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(c.Dir, entry.ContentHash+".cpp"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Store records an emission under the content hash of its source and
// rewrites the index.
func (c *Cache) Store(filePath, content, output string) error {
	hash := ComputeHash(content)
	c.Entries[filePath] = Entry{
		FilePath:    filePath,
		ContentHash: hash,
		Timestamp:   time.Now().Unix(),
	}
	if err := os.WriteFile(filepath.Join(c.Dir, hash+".cpp"), []byte(output), 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return c.saveIndex()
}

// Invalidate drops one file's entry and its stored emission.
func (c *Cache) Invalidate(filePath string) error {
	entry, ok := c.Entries[filePath]
	if !ok {
		return nil
	}
	os.Remove(filepath.Join(c.Dir, entry.ContentHash+".cpp"))
	delete(c.Entries, filePath)
	return c.saveIndex()
}

// Clear drops every entry and stored emission.
func (c *Cache) Clear() error {
	for _, entry := range c.Entries {
		os.Remove(filepath.Join(c.Dir, entry.ContentHash+".cpp"))
	}
	c.Entries = make(map[string]Entry)
	return c.saveIndex()
}

// Size returns the number of cached files.
func (c *Cache) Size() int {
	return len(c.Entries)
}

// loadIndex parses cache_index.txt; malformed lines are skipped.
func (c *Cache) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(c.Dir, indexFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache index: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		timestamp, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}
		c.Entries[parts[0]] = Entry{
			FilePath:    parts[0],
			ContentHash: parts[1],
			Timestamp:   timestamp,
		}
	}
	return nil
}

// saveIndex rewrites cache_index.txt, sorted by path for a stable file.
func (c *Cache) saveIndex() error {
	paths := make([]string, 0, len(c.Entries))
	for path := range c.Entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var sb strings.Builder
	for _, path := range paths {
		entry := c.Entries[path]
		fmt.Fprintf(&sb, "%s|%s|%d\n", entry.FilePath, entry.ContentHash, entry.Timestamp)
	}
	if err := os.WriteFile(filepath.Join(c.Dir, indexFileName), []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing cache index: %w", err)
	}
	return nil
}
