package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned when a note does not exist in the vault.
	ErrNotFound = errors.New("note not found")

	// ErrReadOnly is returned by write operations when the repository
	// is in read-only mode.
	ErrReadOnly = errors.New("repository is in read-only mode")
)
