package repository

import "errors"

// Common repository errors shared by all implementations.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means an insert or update violated a unique
	// constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Resource-specific aliases, kept distinct for errors.Is call sites.
var (
	ErrMeetingNotFound = ErrNotFound
)
