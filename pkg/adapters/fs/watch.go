package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/seedbed/humus/pkg/core"
)

// Watch observes the vault for changes matching the glob pattern.
// Events are debounced and delivered until ctx is cancelled, at which
// point the channel is closed.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**/*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	events := make(chan core.Event, r.config.EventBuffer)
	worker := newWatchWorker(r, pattern, events)

	if err := worker.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		_ = worker.Stop(context.Background())
		close(events)
	}()

	return events, nil
}

// resolveID maps an absolute event path back to a note ID.
func (r *Repository) resolveID(path string) (string, error) {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, noteExt) {
		return "", fmt.Errorf("not a note file: %s", rel)
	}
	return strings.TrimSuffix(rel, noteExt), nil
}

// shouldIgnore filters events for files outside the watch contract:
// hidden/system paths, lock files, non-note files, and IDs that do not
// match the subscriber's pattern.
func (r *Repository) shouldIgnore(event fsnotify.Event, pattern string) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return true
	}

	rel, err := filepath.Rel(r.Path, event.Name)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if part == ".git" || part == r.config.SystemDir {
			return true
		}
	}

	id, err := r.resolveID(event.Name)
	if err != nil {
		return true
	}

	ok, err := doublestar.Match(pattern, id)
	if err != nil || !ok {
		return true
	}
	return false
}

// mapEventType converts an fsnotify op into a vault event type.
// Unhandled ops (chmod) map to the empty string.
func (r *Repository) mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// recursiveAdd registers the vault directory tree with the watcher,
// skipping .git and the system directory.
func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" || d.Name() == r.config.SystemDir {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// Reconcile diffs the vault against the metadata index and returns the
// events that happened while the watcher was paused (e.g. during a git
// operation). The index is updated in place.
func (r *Repository) Reconcile(ctx context.Context) ([]core.Event, error) {
	var events []core.Event
	now := time.Now().Unix()
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == r.config.SystemDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != noteExt {
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		id := strings.TrimSuffix(relPath, noteExt)

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()

		seen[relPath] = true

		if _, fresh := r.cache.Get(relPath, mtime); fresh {
			return nil
		}

		eType := core.EventModify
		if !r.cache.Has(relPath) {
			eType = core.EventCreate
		}
		events = append(events, core.Event{Type: eType, ID: id, Timestamp: now})

		n, err := r.Get(ctx, id)
		if err != nil {
			return nil
		}
		r.cache.Set(relPath, &indexEntry{
			ID:           n.ID,
			Title:        n.Title,
			Layout:       n.Layout,
			Tags:         append([]string(nil), n.Tags...),
			LastModified: mtime,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	var removed []string
	r.cache.Range(func(relPath string, entry *indexEntry) bool {
		if !seen[relPath] {
			removed = append(removed, relPath)
			events = append(events, core.Event{Type: core.EventDelete, ID: entry.ID, Timestamp: now})
		}
		return true
	})
	for _, relPath := range removed {
		r.cache.Delete(relPath)
	}

	r.recordReconcile()
	if !r.config.ReadOnly {
		_ = r.cache.Save()
	}

	return events, nil
}
