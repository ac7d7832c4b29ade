package storage

import "errors"

// Common storage errors
var (
	// ErrDocumentNotFound indicates that document with the given key does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidKey indicates that document key has invalid format
	ErrInvalidKey = errors.New("invalid document key")
)
