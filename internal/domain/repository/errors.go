package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness rule or a
	// conditional update matched no row.
	ErrConflict = errors.New("record conflict")
)
