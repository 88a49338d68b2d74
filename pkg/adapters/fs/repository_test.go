package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seedbed/humus/pkg/adapters/fs"
	"github.com/seedbed/humus/pkg/core"
	"github.com/seedbed/humus/pkg/frontmatter"
)

// setupRepo creates a repository rooted in a temp dir.
// Gitless by default; tests that need git opt in and skip when the
// binary is missing.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	vaultPath := filepath.Join(t.TempDir(), "vault")

	cfg := fs.Config{
		Path:     vaultPath,
		AutoInit: true,
		Gitless:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return fs.NewRepository(cfg), vaultPath
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		repo, path := setupRepo(t)

		if err := repo.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected directory to be created at %s", path)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) {
			c.MustExist = true
			c.AutoInit = false
		})

		if err := repo.Initialize(context.Background()); err == nil {
			t.Error("expected Initialize to fail when directory is missing and MustExist=true")
		}
	})

	t.Run("Inits Git Repo if AutoInit=true", func(t *testing.T) {
		if !fs.IsGitInstalled() {
			t.Skip("git not installed")
		}
		configureGitIdentity(t)

		repo, path := setupRepo(t, func(c *fs.Config) {
			c.Gitless = false
		})

		if err := repo.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}

		if _, err := os.Stat(filepath.Join(path, ".git")); os.IsNotExist(err) {
			t.Error("expected .git directory to be created")
		}
		ignore, err := os.ReadFile(filepath.Join(path, ".gitignore"))
		if err != nil {
			t.Fatalf("expected .gitignore: %v", err)
		}
		if !strings.Contains(string(ignore), ".humus/") {
			t.Errorf("expected system dir in .gitignore, got %q", ignore)
		}
	})

	t.Run("ReadOnly Requires Existing Vault", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) {
			c.ReadOnly = true
		})

		if err := repo.Initialize(context.Background()); err == nil {
			t.Error("expected read-only Initialize to fail on missing vault")
		}
	})
}

func TestSaveAndGet(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	note := core.Note{
		ID:     "journal/first",
		Title:  "First",
		Layout: "note",
		Tags:   []string{"a", "b"},
		Extra:  map[string]any{"draft": true},
		Body:   "Hello\n",
	}

	if err := repo.Save(ctx, note); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// File on disk carries canonical frontmatter.
	raw, err := os.ReadFile(filepath.Join(path, "journal", "first.md"))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if !strings.HasPrefix(string(raw), frontmatter.Delimiter+"\n") {
		t.Errorf("expected frontmatter block, got %q", raw)
	}
	if !strings.HasSuffix(string(raw), "Hello\n") {
		t.Errorf("expected body at end of file, got %q", raw)
	}

	got, err := repo.Get(ctx, "journal/first")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "First" || got.Layout != "note" || got.Body != "Hello\n" {
		t.Errorf("unexpected note: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "a" {
		t.Errorf("unexpected tags: %v", got.Tags)
	}
	if got.Extra["draft"] != true {
		t.Errorf("expected draft in Extra, got %v", got.Extra)
	}
}

func TestGet_Errors(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	repo.Initialize(ctx)

	t.Run("Not Found", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Malformed Metadata Names The File", func(t *testing.T) {
		bad := []byte("---\ntitle: X\n") // block never terminated
		if err := os.WriteFile(filepath.Join(path, "broken.md"), bad, 0644); err != nil {
			t.Fatal(err)
		}

		_, err := repo.Get(ctx, "broken")
		var ferr *frontmatter.MetadataFormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("expected MetadataFormatError, got %v", err)
		}
		if ferr.File != "broken" {
			t.Errorf("expected error stamped with file id, got %q", ferr.File)
		}
		if ferr.Offset != len(bad) {
			t.Errorf("expected offset %d, got %d", len(bad), ferr.Offset)
		}
	})
}

func TestList(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	repo.Initialize(ctx)

	for _, n := range []core.Note{
		{ID: "journal/a", Title: "A", Body: "a\n"},
		{ID: "journal/b", Title: "B", Body: "b\n"},
		{ID: "ideas/c", Title: "C", Body: "c\n"},
	} {
		if err := repo.Save(ctx, n); err != nil {
			t.Fatalf("Save(%s) failed: %v", n.ID, err)
		}
	}

	// Non-note files stay invisible.
	os.WriteFile(filepath.Join(path, "README.txt"), []byte("not a note"), 0644)

	notes, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}

	t.Run("Glob", func(t *testing.T) {
		matched, err := repo.ListGlob(ctx, "journal/*")
		if err != nil {
			t.Fatalf("ListGlob failed: %v", err)
		}
		if len(matched) != 2 {
			t.Errorf("expected 2 matches, got %d", len(matched))
		}
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		if _, err := repo.ListGlob(ctx, "journal/["); err == nil {
			t.Error("expected error for invalid pattern")
		}
	})

	t.Run("Malformed Note Is Skipped", func(t *testing.T) {
		os.WriteFile(filepath.Join(path, "corrupt.md"), []byte("---\n{\n---\n"), 0644)

		notes, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(notes) != 3 {
			t.Errorf("expected corrupt note skipped, got %d notes", len(notes))
		}
	})
}

func TestList_UsesIndexCache(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	repo.Initialize(ctx)

	if err := repo.Save(ctx, core.Note{ID: "cached", Title: "Cached", Body: "x\n"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// Index file exists after a full list.
	if _, err := os.Stat(filepath.Join(path, ".humus", "index.json")); err != nil {
		t.Fatalf("expected index.json: %v", err)
	}

	// Cache hits answer metadata without the body.
	notes, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].Title != "Cached" {
		t.Errorf("expected cached title, got %q", notes[0].Title)
	}
	if notes[0].Body != "" {
		t.Errorf("expected body omitted on cache hit, got %q", notes[0].Body)
	}
}

func TestDelete(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	repo.Initialize(ctx)

	if err := repo.Save(ctx, core.Note{ID: "gone", Body: "x\n"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "gone.md")); !os.IsNotExist(err) {
		t.Error("expected file removed")
	}

	if err := repo.Delete(ctx, "gone"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestReadOnlyGuards(t *testing.T) {
	vaultPath := t.TempDir()
	repo := fs.NewRepository(fs.Config{
		Path:     vaultPath,
		Gitless:  true,
		ReadOnly: true,
	})
	ctx := context.Background()

	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := repo.Save(ctx, core.Note{ID: "x"}); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly on save, got %v", err)
	}
	if err := repo.Delete(ctx, "x"); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly on delete, got %v", err)
	}
	if err := repo.Sync(ctx); !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly on sync, got %v", err)
	}
}

func TestSave_GitCommit(t *testing.T) {
	if !fs.IsGitInstalled() {
		t.Skip("git not installed")
	}
	configureGitIdentity(t)

	repo, path := setupRepo(t, func(c *fs.Config) {
		c.Gitless = false
	})
	ctx := context.Background()
	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	ctx = context.WithValue(ctx, core.ChangeReasonKey, "docs(journal): add first entry")
	if err := repo.Save(ctx, core.Note{ID: "journal/first", Title: "First", Body: "x\n"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out := gitLog(t, path)
	if !strings.Contains(out, "docs(journal): add first entry") {
		t.Errorf("expected change reason in git log, got %q", out)
	}
}
