package lint_test

import (
	"context"
	"errors"
	"testing"

	"github.com/seedbed/humus/pkg/core"
	"github.com/seedbed/humus/pkg/lint"
)

func hasSeverity(issues []lint.Issue, s lint.Severity) bool {
	for _, i := range issues {
		if i.Severity == s {
			return true
		}
	}
	return false
}

func TestNote(t *testing.T) {
	t.Run("Clean Note", func(t *testing.T) {
		n := core.Note{ID: "journal/day-one", Title: "Day One", Layout: "note"}
		if issues := lint.Note(n); len(issues) != 0 {
			t.Errorf("expected no issues, got %v", issues)
		}
	})

	t.Run("Missing Title Is An Error", func(t *testing.T) {
		n := core.Note{ID: "draft", Layout: "note"}
		issues := lint.Note(n)
		if !hasSeverity(issues, lint.SeverityError) {
			t.Errorf("expected error issue, got %v", issues)
		}
	})

	t.Run("Missing Layout Is An Error", func(t *testing.T) {
		n := core.Note{ID: "draft", Title: "Draft"}
		if issues := lint.Note(n); !hasSeverity(issues, lint.SeverityError) {
			t.Errorf("expected error issue, got %v", issues)
		}
	})

	t.Run("Blank Tag Is An Error", func(t *testing.T) {
		n := core.Note{ID: "tagged", Title: "T", Layout: "note", Tags: []string{" "}}
		if issues := lint.Note(n); !hasSeverity(issues, lint.SeverityError) {
			t.Errorf("expected error issue, got %v", issues)
		}
	})

	t.Run("Unslugged ID Is A Warning", func(t *testing.T) {
		n := core.Note{ID: "My Notes/Day One", Title: "Day One", Layout: "note"}
		issues := lint.Note(n)
		if !hasSeverity(issues, lint.SeverityWarning) {
			t.Errorf("expected warning issue, got %v", issues)
		}
		if hasSeverity(issues, lint.SeverityError) {
			t.Errorf("slug problems are warnings, got %v", issues)
		}
	})
}

func TestNotes(t *testing.T) {
	notes := []core.Note{
		{ID: "good", Title: "Good", Layout: "note"},
		{ID: "bad"},
	}

	issues := lint.Notes(notes)
	if len(issues) == 0 {
		t.Fatal("expected issues for the bad note")
	}
	for _, i := range issues {
		if i.NoteID != "bad" {
			t.Errorf("unexpected issue for %q: %v", i.NoteID, i)
		}
	}
}

type listRepo struct {
	core.Repository
	notes []core.Note
	err   error
}

func (r *listRepo) List(ctx context.Context) ([]core.Note, error) {
	return r.notes, r.err
}

func TestVault(t *testing.T) {
	repo := &listRepo{notes: []core.Note{{ID: "x"}}}

	issues, err := lint.Vault(context.Background(), repo)
	if err != nil {
		t.Fatalf("Vault failed: %v", err)
	}
	if len(issues) == 0 {
		t.Error("expected issues from vault lint")
	}

	broken := &listRepo{err: errors.New("boom")}
	if _, err := lint.Vault(context.Background(), broken); err == nil {
		t.Error("expected list error to propagate")
	}
}
