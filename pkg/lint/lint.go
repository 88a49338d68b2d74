// Package lint surfaces the metadata contract as a vault-wide check.
// The parser stays permissive (a metadata-less file is a valid parse)
// so authors need a separate pass that tells them which notes are not
// publishable yet.
package lint

import (
	"context"
	"fmt"

	"github.com/goliatone/go-slug"

	"github.com/seedbed/humus/pkg/core"
)

// Severity classifies lint findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding against one note.
type Issue struct {
	NoteID   string
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.NoteID, i.Severity, i.Message)
}

// Notes checks every note against the metadata contract:
//   - title and layout are required (error)
//   - tags must not be blank (error)
//   - the note ID should be a clean slug so generated URLs stay
//     predictable (warning)
func Notes(notes []core.Note) []Issue {
	var issues []Issue
	for _, n := range notes {
		issues = append(issues, Note(n)...)
	}
	return issues
}

// Note checks a single note.
func Note(n core.Note) []Issue {
	var issues []Issue

	if err := n.Validate(); err != nil {
		issues = append(issues, Issue{
			NoteID:   n.ID,
			Severity: SeverityError,
			Message:  err.Error(),
		})
	}

	// Nested IDs are paths; each segment should be a slug.
	for _, segment := range splitID(n.ID) {
		if segment == "" || !slug.IsValid(segment) {
			issues = append(issues, Issue{
				NoteID:   n.ID,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("id segment %q is not a clean slug", segment),
			})
		}
	}

	return issues
}

// Vault lists the repository and lints everything in it.
func Vault(ctx context.Context, repo core.Repository) ([]Issue, error) {
	notes, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}
	return Notes(notes), nil
}

func splitID(id string) []string {
	var segments []string
	start := 0
	for i := 0; i <= len(id); i++ {
		if i == len(id) || id[i] == '/' {
			segments = append(segments, id[start:i])
			start = i + 1
		}
	}
	return segments
}
