package store

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("store: record not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("store: record already exists")

	// ErrUnknownField is returned when a lookup, ordering or write names a field the record does not have.
	ErrUnknownField = errors.New("store: unknown field")

	// ErrEmptyLookup is returned by Find when the lookup has no conditions.
	ErrEmptyLookup = errors.New("store: empty lookup")

	ErrDecode = errors.New("store: failed to decode record")
)
