package repository

import "errors"

var (
	// ErrNotFound is returned when a requested document doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an optimistic concurrency check fails
	ErrConflict = errors.New("conflict: document was modified by another writer")

	// ErrDuplicate is returned when inserting a document whose id already exists
	ErrDuplicate = errors.New("duplicate key")
)
