// Package typed layers type-safe metadata access over the raw note
// repository. The user declares a struct for the frontmatter they care
// about; conversion between Note metadata and the struct goes through
// JSON tags.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/seedbed/humus/pkg/core"
)

// NoteModel wraps a raw core.Note with a typed metadata field.
type NoteModel[T any] struct {
	ID    string
	Body  string
	Meta  T        // the typed frontmatter
	Saver Saver[T] // active-record reference
}

// Saver decouples NoteModel.Save from a concrete repository type.
type Saver[T any] interface {
	Save(ctx context.Context, n *NoteModel[T]) error
}

// Save persists the note through the attached saver.
func (n *NoteModel[T]) Save(ctx context.Context) error {
	if n.Saver == nil {
		return fmt.Errorf("note is detached (missing Saver)")
	}
	return n.Saver.Save(ctx, n)
}

// Repository wraps a core.Repository to provide type-safe access.
type Repository[T any] struct {
	repo core.Repository
}

// NewRepository creates a type-safe wrapper around an existing repository.
func NewRepository[T any](repo core.Repository) *Repository[T] {
	return &Repository[T]{repo: repo}
}

// Save persists a typed note.
func (r *Repository[T]) Save(ctx context.Context, n *NoteModel[T]) error {
	meta, err := metaToMap(n.Meta)
	if err != nil {
		return err
	}

	coreNote := noteFromMap(meta)
	coreNote.ID = n.ID
	coreNote.Body = n.Body

	if n.Saver == nil {
		n.Saver = r
	}

	return r.repo.Save(ctx, coreNote)
}

// Get retrieves a note and converts its metadata to T.
func (r *Repository[T]) Get(ctx context.Context, id string) (*NoteModel[T], error) {
	coreNote, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore(coreNote, r)
}

// List returns all notes converted to the typed model.
func (r *Repository[T]) List(ctx context.Context) ([]*NoteModel[T], error) {
	coreNotes, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*NoteModel[T], 0, len(coreNotes))
	for _, n := range coreNotes {
		model, err := fromCore(n, r)
		if err != nil {
			return nil, fmt.Errorf("failed to process note %s: %w", n.ID, err)
		}
		result = append(result, model)
	}
	return result, nil
}

// Delete removes a note by ID.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.repo.Delete(ctx, id)
}

func fromCore[T any](n core.Note, saver Saver[T]) (*NoteModel[T], error) {
	dataBytes, err := json.Marshal(n.Meta())
	if err != nil {
		return nil, fmt.Errorf("metadata marshal failed: %w", err)
	}

	var meta T
	if err := json.Unmarshal(dataBytes, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal to target type failed: %w", err)
	}

	return &NoteModel[T]{
		ID:    n.ID,
		Body:  n.Body,
		Meta:  meta,
		Saver: saver,
	}, nil
}

func metaToMap[T any](meta T) (map[string]any, error) {
	dataBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed metadata: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(dataBytes, &m); err != nil {
		return nil, fmt.Errorf("failed to convert typed metadata to map: %w", err)
	}
	return m, nil
}

// noteFromMap splits a flat metadata map back into the core contract
// fields, leaving the rest in Extra.
func noteFromMap(meta map[string]any) core.Note {
	var n core.Note
	extra := make(map[string]any)

	for k, v := range meta {
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				n.Title = s
				continue
			}
		case "layout":
			if s, ok := v.(string); ok {
				n.Layout = s
				continue
			}
		case "tags":
			if list, ok := v.([]any); ok {
				tags := make([]string, 0, len(list))
				for _, item := range list {
					if s, ok := item.(string); ok {
						tags = append(tags, s)
					} else {
						tags = append(tags, fmt.Sprintf("%v", item))
					}
				}
				n.Tags = tags
				continue
			}
			if list, ok := v.([]string); ok {
				n.Tags = list
				continue
			}
		}
		extra[k] = v
	}

	if len(extra) > 0 {
		n.Extra = extra
	}
	return n
}
