// Package fs implements the filesystem vault: one note per UTF-8 text
// file, optional Git versioning, and a metadata index cache.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"

	"github.com/seedbed/humus/pkg/core"
	"github.com/seedbed/humus/pkg/git"
)

const noteExt = ".md"

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	AutoInit     bool
	Gitless      bool
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string // hidden state directory, e.g. ".humus"
	EventBuffer  int    // watch channel capacity, 0 means default
	ErrorHandler func(error)
}

// Repository implements core.Repository on top of a directory of note
// files, optionally backed by Git.
type Repository struct {
	Path   string
	git    *git.Client
	cache  *cache
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = ".humus"
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 100
	}
	return &Repository{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly {
		// Read-only vaults must already exist; nothing to set up.
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
		return nil
	}

	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	if !r.config.Gitless {
		if !git.IsInstalled() {
			return fmt.Errorf("git is not installed")
		}

		wasNewRepo := false
		if !r.git.IsRepo() {
			if r.config.AutoInit {
				if err := r.git.Init(); err != nil {
					return fmt.Errorf("failed to git init: %w", err)
				}
				wasNewRepo = true
			} else {
				return fmt.Errorf("path is not a git repository: %s", r.Path)
			}
		}

		// Keep the system directory out of history.
		mod, err := r.ensureIgnore()
		if err != nil {
			return fmt.Errorf("failed to ensure .gitignore: %w", err)
		}

		if mod && wasNewRepo {
			if err := r.git.Add(".gitignore"); err != nil {
				return fmt.Errorf("failed to add .gitignore: %w", err)
			}
			if err := r.git.Commit(fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
				return fmt.Errorf("failed to commit .gitignore: %w", err)
			}
		}
	}

	return nil
}

func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// noteFilename maps a note ID to its vault-relative file name.
func noteFilename(id string) string {
	if filepath.Ext(id) == noteExt {
		return id
	}
	return id + noteExt
}

// Save persists a note to the filesystem and commits it to Git.
//
// Workflow:
//  1. Encode the note canonically (YAML frontmatter + body).
//  2. Create parent directories and write atomically.
//  3. (If Git enabled) 'git add' and commit with the change reason
//     carried in ctx, defaulting to "update <id>".
func (r *Repository) Save(ctx context.Context, n core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if n.ID == "" {
		return fmt.Errorf("note has no ID")
	}

	filename := noteFilename(n.ID)
	fullPath := filepath.Join(r.Path, filename)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := encodeNote(n)
	if err != nil {
		return fmt.Errorf("failed to serialize note: %w", err)
	}

	if err := atomic.WriteFile(fullPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if info, err := os.Stat(fullPath); err == nil {
		r.cache.Set(filepath.ToSlash(filename), &indexEntry{
			ID:           n.ID,
			Title:        n.Title,
			Layout:       n.Layout,
			Tags:         append([]string(nil), n.Tags...),
			LastModified: info.ModTime(),
		})
	}

	if !r.config.Gitless {
		unlock, err := r.git.Lock()
		if err != nil {
			return fmt.Errorf("failed to acquire git lock: %w", err)
		}
		defer unlock()

		if err := r.git.Add(filename); err != nil {
			return fmt.Errorf("failed to git add: %w", err)
		}

		msg := "update " + n.ID
		if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
			msg = val
		}

		if err := r.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to git commit: %w", err)
		}
	}

	return nil
}

// Get retrieves a note from the filesystem.
func (r *Repository) Get(ctx context.Context, id string) (core.Note, error) {
	fullPath := filepath.Join(r.Path, noteFilename(id))

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Note{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
		}
		return core.Note{}, err
	}

	n, err := decodeNote(id, data)
	if err != nil {
		return core.Note{}, err
	}
	return n, nil
}

// List scans the directory for all notes.
//
// Strategy:
//  1. Load the metadata index from disk.
//  2. Walk the tree, skipping .git and the system directory.
//  3. Cache hit (matching mtime): answer from the index without
//     touching the file. Miss: full parse, update the index.
//  4. Prune deleted files and save the index back.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	return r.list(ctx, "")
}

// ListGlob restricts List to note IDs matching a doublestar pattern.
func (r *Repository) ListGlob(ctx context.Context, pattern string) ([]core.Note, error) {
	if pattern != "" {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
		}
	}
	return r.list(ctx, pattern)
}

func (r *Repository) list(ctx context.Context, pattern string) ([]core.Note, error) {
	var notes []core.Note

	if err := r.cache.Load(); err != nil {
		if r.config.Logger != nil {
			r.config.Logger.Warn("failed to load index cache", "error", err)
		}
	}
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

		if pattern != "" {
			ok, err := doublestar.Match(pattern, id)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()

		seen[relPath] = true

		if entry, hit := r.cache.Get(relPath, mtime); hit {
			// Metadata answered from the index; body deliberately
			// skipped to keep List O(1) per unchanged file.
			notes = append(notes, core.Note{
				ID:     entry.ID,
				Title:  entry.Title,
				Layout: entry.Layout,
				Tags:   entry.Tags,
			})
			return nil
		}

		n, err := r.Get(ctx, id)
		if err != nil {
			// Notes decode independently; a malformed file is the
			// author's problem, not the walker's.
			if r.config.Logger != nil {
				r.config.Logger.Warn("failed to parse note during list", "id", id, "error", err)
			}
			return nil
		}

		r.cache.Set(relPath, &indexEntry{
			ID:           n.ID,
			Title:        n.Title,
			Layout:       n.Layout,
			Tags:         append([]string(nil), n.Tags...),
			LastModified: mtime,
		})

		notes = append(notes, n)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk vault dir: %w", err)
	}

	// A glob walk only sees part of the vault, so pruning against its
	// 'seen' set would evict live entries.
	if pattern == "" {
		r.cache.Prune(seen)
	}
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			if r.config.Logger != nil {
				r.config.Logger.Warn("failed to save index cache", "error", err)
			}
		}
	}

	return notes, nil
}

// Delete removes a note.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	filename := noteFilename(id)
	fullPath := filepath.Join(r.Path, filename)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}

	r.cache.Delete(filepath.ToSlash(filename))

	if r.config.Gitless {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Rm(filename); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}

	msg := "delete " + id
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}

	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	return nil
}

// Sync synchronizes the repository with its remote.
func (r *Repository) Sync(ctx context.Context) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if r.config.Gitless {
		return fmt.Errorf("cannot sync in gitless mode")
	}
	if !r.git.IsRepo() {
		return fmt.Errorf("path is not a git repository: %s", r.Path)
	}
	if !r.git.HasRemote() {
		return fmt.Errorf("remote 'origin' not configured")
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync()
}

// IsGitInstalled checks if git is available in the system path.
func IsGitInstalled() bool {
	return git.IsInstalled()
}

var _ core.Repository = (*Repository)(nil)
var _ core.Syncable = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
var _ core.Lister = (*Repository)(nil)
