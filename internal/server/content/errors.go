package content

import "errors"

var (
	// ErrNotFound indicates that post with the given slug does not exist
	ErrNotFound = errors.New("post not found")

	// ErrConflict indicates that post with the same slug already exists
	ErrConflict = errors.New("post already exists")
)
