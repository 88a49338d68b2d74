package core

import (
	"context"
	"errors"
	"sync"
)

// Service handles the business logic for notes.
type Service struct {
	repo Repository

	mu              sync.RWMutex
	eventBufferSize int
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, eventBufferSize: 100}
}

// SaveNote saves a note with business validation.
func (s *Service) SaveNote(ctx context.Context, n Note) error {
	if n.ID == "" {
		return errors.New("note ID cannot be empty")
	}
	// Empty bodies and empty metadata are allowed: both are valid notes
	// (drafts, stubs). Structural validation is the lint layer's job.
	return s.repo.Save(ctx, n)
}

// GetNote retrieves a note.
func (s *Service) GetNote(ctx context.Context, id string) (Note, error) {
	if id == "" {
		return Note{}, errors.New("note ID cannot be empty")
	}
	return s.repo.Get(ctx, id)
}

// ListNotes retrieves all notes.
func (s *Service) ListNotes(ctx context.Context) ([]Note, error) {
	return s.repo.List(ctx)
}

// ListNotesGlob retrieves the notes matching a glob pattern, falling
// back to a full List when the repository does not support globbing.
func (s *Service) ListNotesGlob(ctx context.Context, pattern string) ([]Note, error) {
	if pattern == "" {
		return s.repo.List(ctx)
	}
	l, ok := s.repo.(Lister)
	if !ok {
		return nil, errors.New("repository does not support glob listing")
	}
	return l.ListGlob(ctx, pattern)
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("note ID cannot be empty")
	}
	return s.repo.Delete(ctx, id)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// Sync synchronizes the repository with its remote if supported.
func (s *Service) Sync(ctx context.Context) error {
	sy, ok := s.repo.(Syncable)
	if !ok {
		return errors.New("repository does not support sync")
	}
	return sy.Sync(ctx)
}
