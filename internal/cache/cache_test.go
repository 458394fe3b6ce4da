package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	c, err := New(dir, "8MB", zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheMissThenHit(t *testing.T) {
	c := newTestCache(t)

	if _, ok := c.Get("missing-key"); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Put("some-key", []byte("payload")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	data, ok := c.Get("some-key")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if string(data) != "payload" {
		t.Errorf("Get() = %q, want %q", data, "payload")
	}
}

func TestCachePutIsAtomicOnDisk(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, "1MB", zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer c.Close()

	if err := c.Put("key-a", []byte("hello")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	for _, e := range entries {
		if len(e.Name()) >= 5 && e.Name()[:5] == ".tmp-" {
			t.Errorf("leftover temp file in cache dir: %s", e.Name())
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "key-a"))
	if err != nil {
		t.Fatalf("expected final file on disk: %v", err)
	}
	if string(raw) != "hello" {
		t.Errorf("file content = %q, want %q", raw, "hello")
	}
}

func TestCachePutEmptyIsNoop(t *testing.T) {
	c := newTestCache(t)
	if err := c.Put("key", nil); err != nil {
		t.Fatalf("Put(nil) should be a no-op, got error: %v", err)
	}
	if _, ok := c.Get("key"); ok {
		t.Fatal("expected no entry after Put(nil)")
	}
}

func TestCacheStatsTrackHitsAndMisses(t *testing.T) {
	c := newTestCache(t)

	c.Get("absent")
	if err := c.Put("present", []byte("x")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	c.Get("present")
	c.Get("present")

	stats := c.Stats()
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}
	if stats.Hits != 2 {
		t.Errorf("hits = %d, want 2", stats.Hits)
	}
	if stats.Entries != 1 {
		t.Errorf("entries = %d, want 1", stats.Entries)
	}
}

func TestCacheReopenReadsFromDiskTier(t *testing.T) {
	dir := t.TempDir()

	c1, err := New(dir, "1MB", zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := c1.Put("durable-key", []byte("value")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	c1.Close()

	c2, err := New(dir, "1MB", zerolog.Nop())
	if err != nil {
		t.Fatalf("New() (reopen) error: %v", err)
	}
	defer c2.Close()

	data, ok := c2.Get("durable-key")
	if !ok {
		t.Fatal("expected reopened cache to find the entry on the file tier")
	}
	if string(data) != "value" {
		t.Errorf("Get() = %q, want %q", data, "value")
	}
}
