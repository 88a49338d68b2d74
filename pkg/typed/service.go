package typed

import (
	"context"

	"github.com/seedbed/humus/pkg/core"
)

// Service wraps a core.Service to provide type-safe access, including
// pass-through watching.
type Service[T any] struct {
	svc  *core.Service
	repo *serviceSaver[T]
}

// NewService creates a type-safe wrapper around an existing service.
func NewService[T any](svc *core.Service) *Service[T] {
	s := &Service[T]{svc: svc}
	s.repo = &serviceSaver[T]{svc: svc}
	return s
}

// Save persists a typed note through the service layer.
func (s *Service[T]) Save(ctx context.Context, n *NoteModel[T]) error {
	return s.repo.Save(ctx, n)
}

// Get retrieves a typed note.
func (s *Service[T]) Get(ctx context.Context, id string) (*NoteModel[T], error) {
	coreNote, err := s.svc.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore(coreNote, s.repo)
}

// List returns all notes converted to the typed model.
func (s *Service[T]) List(ctx context.Context) ([]*NoteModel[T], error) {
	coreNotes, err := s.svc.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*NoteModel[T], 0, len(coreNotes))
	for _, n := range coreNotes {
		model, err := fromCore(n, s.repo)
		if err != nil {
			return nil, err
		}
		result = append(result, model)
	}
	return result, nil
}

// Delete removes a note by ID.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	return s.svc.DeleteNote(ctx, id)
}

// Watch observes repository changes if supported.
func (s *Service[T]) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return s.svc.Watch(ctx, pattern)
}

// serviceSaver adapts the core service to the Saver contract.
type serviceSaver[T any] struct {
	svc *core.Service
}

func (s *serviceSaver[T]) Save(ctx context.Context, n *NoteModel[T]) error {
	meta, err := metaToMap(n.Meta)
	if err != nil {
		return err
	}
	coreNote := noteFromMap(meta)
	coreNote.ID = n.ID
	coreNote.Body = n.Body

	if n.Saver == nil {
		n.Saver = s
	}

	return s.svc.SaveNote(ctx, coreNote)
}
