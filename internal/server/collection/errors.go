package collection

import "errors"

var (
	// ErrNotFound indicates that record with the given id is absent
	ErrNotFound = errors.New("record not found")

	// ErrIndexOutOfRange indicates that swap position is outside the collection
	ErrIndexOutOfRange = errors.New("index out of range")
)
