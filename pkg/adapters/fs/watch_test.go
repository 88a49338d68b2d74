package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedbed/humus/pkg/core"
)

func writeRaw(root, rel, content string) error {
	return os.WriteFile(filepath.Join(root, rel), []byte(content), 0644)
}

func removeRaw(root, rel string) error {
	return os.Remove(filepath.Join(root, rel))
}

func watchTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(Config{
		Path:    t.TempDir(),
		Gitless: true,
	})
	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

func TestShouldIgnore(t *testing.T) {
	repo := watchTestRepo(t)
	pattern := "**/*"

	cases := []struct {
		name   string
		path   string
		ignore bool
	}{
		{"note file", filepath.Join(repo.Path, "note.md"), false},
		{"nested note", filepath.Join(repo.Path, "a", "b.md"), false},
		{"hidden file", filepath.Join(repo.Path, ".hidden.md"), true},
		{"lock file", filepath.Join(repo.Path, ".humus.lock"), true},
		{"git internals", filepath.Join(repo.Path, ".git", "index"), true},
		{"system dir", filepath.Join(repo.Path, ".humus", "index.json"), true},
		{"non-note file", filepath.Join(repo.Path, "readme.txt"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := fsnotify.Event{Name: tc.path, Op: fsnotify.Write}
			assert.Equal(t, tc.ignore, repo.shouldIgnore(ev, pattern))
		})
	}

	t.Run("pattern mismatch", func(t *testing.T) {
		ev := fsnotify.Event{Name: filepath.Join(repo.Path, "ideas", "x.md"), Op: fsnotify.Write}
		assert.True(t, repo.shouldIgnore(ev, "journal/*"))
		assert.False(t, repo.shouldIgnore(ev, "ideas/*"))
	})
}

func TestMapEventType(t *testing.T) {
	repo := watchTestRepo(t)

	assert.Equal(t, core.EventCreate, repo.mapEventType(fsnotify.Event{Op: fsnotify.Create}))
	assert.Equal(t, core.EventModify, repo.mapEventType(fsnotify.Event{Op: fsnotify.Write}))
	assert.Equal(t, core.EventDelete, repo.mapEventType(fsnotify.Event{Op: fsnotify.Remove}))
	assert.Equal(t, core.EventDelete, repo.mapEventType(fsnotify.Event{Op: fsnotify.Rename}))
	assert.Equal(t, core.EventType(""), repo.mapEventType(fsnotify.Event{Op: fsnotify.Chmod}))
}

func TestResolveID(t *testing.T) {
	repo := watchTestRepo(t)

	id, err := repo.resolveID(filepath.Join(repo.Path, "journal", "day.md"))
	require.NoError(t, err)
	assert.Equal(t, "journal/day", id)

	_, err = repo.resolveID(filepath.Join(repo.Path, "journal", "day.txt"))
	assert.Error(t, err)
}

func TestDebouncer(t *testing.T) {
	t.Run("Coalesces Bursts", func(t *testing.T) {
		d := newDebouncer(20 * time.Millisecond)
		var fired int32

		for i := 0; i < 5; i++ {
			d.add(core.Event{Type: core.EventModify, ID: "same"}, func(core.Event) {
				atomic.AddInt32(&fired, 1)
			})
		}
		d.stopAndWait(time.Second)

		assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	})

	t.Run("Distinct IDs Fire Independently", func(t *testing.T) {
		d := newDebouncer(10 * time.Millisecond)
		var fired int32

		for _, id := range []string{"a", "b", "c"} {
			d.add(core.Event{Type: core.EventModify, ID: id}, func(core.Event) {
				atomic.AddInt32(&fired, 1)
			})
		}
		d.stopAndWait(time.Second)

		assert.Equal(t, int32(3), atomic.LoadInt32(&fired))
	})

	t.Run("Rejects After Stop", func(t *testing.T) {
		d := newDebouncer(time.Millisecond)
		d.stopAndWait(time.Second)

		var fired int32
		d.add(core.Event{ID: "late"}, func(core.Event) {
			atomic.AddInt32(&fired, 1)
		})
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	})
}

func TestReconcile(t *testing.T) {
	repo := watchTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Note{ID: "kept", Title: "Kept", Body: "x\n"}))
	require.NoError(t, repo.Save(ctx, core.Note{ID: "doomed", Title: "Doomed", Body: "x\n"}))
	_, err := repo.List(ctx)
	require.NoError(t, err)

	// Mutate the vault behind the index's back.
	require.NoError(t, writeRaw(repo.Path, "external.md", "---\ntitle: External\n---\n"))
	require.NoError(t, removeRaw(repo.Path, "doomed.md"))

	events, err := repo.Reconcile(ctx)
	require.NoError(t, err)

	types := make(map[string]core.EventType, len(events))
	for _, e := range events {
		types[e.ID] = e.Type
	}
	assert.Equal(t, core.EventCreate, types["external"])
	assert.Equal(t, core.EventDelete, types["doomed"])
	assert.NotContains(t, types, "kept")
}

func TestWatch_DeliversEvents(t *testing.T) {
	repo := watchTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx, "**/*")
	require.NoError(t, err)

	require.NoError(t, writeRaw(repo.Path, "live.md", "---\ntitle: Live\n---\nbody\n"))

	select {
	case e := <-events:
		assert.Equal(t, "live", e.ID)
		assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, e.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}

	cancel()
	// Channel closes once the worker shuts down.
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for channel close")
		}
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	repo := watchTestRepo(t)

	_, err := repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}
