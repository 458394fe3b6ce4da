// Package cache implements the on-disk, retry-aware response cache backing
// the HTTP fetcher (spec.md §4.3 steps 1 and 5, §6 "Cache layout"). It is a
// two-tier cache: an in-process LRU in front of a file-backed tier, with a
// small embedded SQLite index that records per-key size, fetch time and hit
// count and is never read back by Get — the file tier itself is always
// authoritative.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// approxEntryBytes is used only to translate a human byte budget (e.g.
// "256MB") into an entry count for the count-based in-process LRU; it does
// not bound actual memory use precisely, matching the approximate nature
// of the teacher's own cache-size flag.
const approxEntryBytes = 64 * 1024

// Cache is a multi-reader, multi-writer file cache. Collisions at the same
// key are benign: the last writer wins, and a reader observes either a
// complete file or nothing, never a partial write, because writes go
// through a temp file + atomic rename.
type Cache struct {
	dir    string
	mem    *lru.Cache[string, []byte]
	db     *sql.DB
	logger zerolog.Logger

	mu      sync.Mutex
	hits    int64
	misses  int64
	entries int64
}

// New opens (creating if necessary) a file cache rooted at dir, with an
// in-process LRU tier sized from a human byte budget such as "256MB". An
// empty memLimit sizes the in-process tier at a single entry, so nearly
// every hit reads through to disk.
func New(dir, memLimit string, logger zerolog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create cache dir %s: %w", dir, err)
	}

	entries := 1
	if memLimit != "" {
		bytesLimit, err := humanize.ParseBytes(memLimit)
		if err != nil {
			return nil, fmt.Errorf("cache: parse memory limit %q: %w", memLimit, err)
		}
		if n := int(bytesLimit / approxEntryBytes); n > entries {
			entries = n
		}
	}

	mem, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, fmt.Errorf("cache: create in-process LRU: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "cache_index.sqlite3"))
	if err != nil {
		return nil, fmt.Errorf("cache: open index: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		size INTEGER NOT NULL,
		fetched_at INTEGER NOT NULL,
		hits INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create index table: %w", err)
	}

	return &Cache{dir: dir, mem: mem, db: db, logger: logger.With().Str("component", "cache").Logger()}, nil
}

// Close releases the cache's index database handle. The file tier itself
// needs no cleanup.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached bytes for key, if present. A cache miss is not an
// error — the caller falls through to the network.
func (c *Cache) Get(key string) ([]byte, bool) {
	if data, ok := c.mem.Get(key); ok {
		c.recordHit(key)
		return data, true
	}

	data, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mem.Add(key, data)
	c.recordHit(key)
	return data, true
}

// Put writes data under key atomically: a temp file in the same directory
// (so the rename is same-filesystem), advisory-locked while being written,
// then renamed over any existing file. Empty data is not written — the
// fetcher never calls Put for empty responses since spec.md §4.3 step 5
// only writes non-empty final bytes.
func (c *Cache) Put(key string, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-"+sanitizeTempPrefix(key)+"-*")
	if err != nil {
		return fmt.Errorf("cache: create temp file for %s: %w", key, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if err := flock(tmp); err != nil {
		c.logger.Debug().Err(err).Msg("advisory lock unavailable, continuing best-effort")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: write temp file for %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close temp file for %s: %w", key, err)
	}

	if err := os.Rename(tmpPath, filepath.Join(c.dir, key)); err != nil {
		return fmt.Errorf("cache: rename into place for %s: %w", key, err)
	}

	c.mem.Add(key, data)
	c.recordEntry(key, len(data))
	return nil
}

func (c *Cache) recordHit(key string) {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()

	if c.db == nil {
		return
	}
	if _, err := c.db.Exec(`UPDATE cache_entries SET hits = hits + 1 WHERE key = ?`, key); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache index hit update failed")
	}
}

func (c *Cache) recordEntry(key string, size int) {
	c.mu.Lock()
	c.entries++
	c.mu.Unlock()

	if c.db == nil {
		return
	}
	_, err := c.db.Exec(`INSERT INTO cache_entries (key, size, fetched_at, hits)
		VALUES (?, ?, ?, 0)
		ON CONFLICT(key) DO UPDATE SET size = excluded.size, fetched_at = excluded.fetched_at`,
		key, size, time.Now().Unix())
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache index write failed")
	}
}

// Stats is a snapshot of in-process cache activity, formatted the way the
// teacher's query command reports cache performance.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int64
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: c.entries}
}

// FormatStats renders cache statistics in a human-readable form.
func FormatStats(s Stats) string {
	total := s.Hits + s.Misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(s.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("hits=%s misses=%s entries=%s hit_ratio=%.1f%%",
		humanize.Comma(s.Hits), humanize.Comma(s.Misses), humanize.Comma(s.Entries), ratio)
}

func sanitizeTempPrefix(key string) string {
	if len(key) > 16 {
		key = key[:16]
	}
	out := make([]rune, 0, len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
