package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := newCache(t.TempDir(), ".humus")
	now := time.Now()

	c.Set("a.md", &indexEntry{ID: "a", Title: "A", LastModified: now})

	entry, ok := c.Get("a.md", now)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if entry.Title != "A" {
		t.Errorf("unexpected entry: %+v", entry)
	}

	// Stale mtime is a miss.
	if _, ok := c.Get("a.md", now.Add(time.Second)); ok {
		t.Error("expected miss for changed mtime")
	}
	if _, ok := c.Get("missing.md", now); ok {
		t.Error("expected miss for unknown path")
	}
}

func TestCache_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	c := newCache(dir, ".humus")
	c.Set("a.md", &indexEntry{ID: "a", Title: "A", LastModified: now})
	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fresh := newCache(dir, ".humus")
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fresh.Len() != 1 || !fresh.Has("a.md") {
		t.Errorf("expected entry to survive reload, len=%d", fresh.Len())
	}
}

func TestCache_CorruptIndexSelfHeals(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, ".humus", "index.json")
	os.MkdirAll(filepath.Dir(indexPath), 0755)
	os.WriteFile(indexPath, []byte("{not json"), 0644)

	c := newCache(dir, ".humus")
	if err := c.Load(); err != nil {
		t.Fatalf("expected corrupt index to load as empty, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestCache_PruneAndDelete(t *testing.T) {
	c := newCache(t.TempDir(), ".humus")
	now := time.Now()

	c.Set("a.md", &indexEntry{ID: "a", LastModified: now})
	c.Set("b.md", &indexEntry{ID: "b", LastModified: now})
	c.Set("c.md", &indexEntry{ID: "c", LastModified: now})

	c.Prune(map[string]bool{"a.md": true, "b.md": true})
	if c.Has("c.md") {
		t.Error("expected c.md pruned")
	}

	c.Delete("a.md")
	if c.Has("a.md") {
		t.Error("expected a.md deleted")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry left, got %d", c.Len())
	}
}

func TestCache_SaveSkipsWhenClean(t *testing.T) {
	dir := t.TempDir()
	c := newCache(dir, ".humus")

	// Nothing dirty: no file should appear.
	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
		t.Error("expected no index file for clean cache")
	}
}
