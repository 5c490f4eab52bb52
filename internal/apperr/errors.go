// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound reports a note content file that no longer exists on disk.
	ErrNotFound = errors.New("not found")
	// ErrIndexOutOfRange reports a selection outside the registry bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNoSelection reports an operation that needs an open note.
	ErrNoSelection = errors.New("no note selected")
	// ErrOutsideRoot reports a path that escapes the storage root.
	ErrOutsideRoot = errors.New("path escapes storage root")
)
