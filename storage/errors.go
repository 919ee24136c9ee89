package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a document is not found.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidName is returned for document names that cannot be used as keys.
	ErrInvalidName = errors.New("invalid document name")
)
