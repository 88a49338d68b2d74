package core

import "context"

// Repository defines the contract for storing and retrieving notes.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (Filesystem, Git, SQL, S3, etc).
type Repository interface {
	// Save persists a note. It creates if not exists, or updates if it does.
	Save(ctx context.Context, n Note) error

	// Get retrieves a note by its ID.
	Get(ctx context.Context, id string) (Note, error)

	// List returns all available notes. Notes decode independently of
	// each other; an unparseable file is skipped, never fatal.
	List(ctx context.Context) ([]Note, error)

	// Delete removes a note by its ID.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready (e.g. create
	// directories, git init).
	Initialize(ctx context.Context) error
}

// Syncable defines an interface for repositories that support
// synchronization with a remote.
type Syncable interface {
	// Sync synchronizes the local state with a remote source (e.g. git pull/push).
	Sync(ctx context.Context) error
}

// Watchable defines an interface for repositories that can emit change events.
type Watchable interface {
	// Watch observes the repository for changes matching the glob pattern.
	// The returned channel is closed when ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Lister extends Repository with glob-restricted listing.
type Lister interface {
	// ListGlob returns the notes whose IDs match the doublestar pattern.
	ListGlob(ctx context.Context, pattern string) ([]Note, error)
}
