package repository

import "errors"

// Errors returned by every store implementation.
var (
	// ErrNotFound means no row exists for the key.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a row with the same key already exists.
	ErrConflict = errors.New("already exists")

	// ErrForeignKeyViolation means a referenced row (such as a crew) is missing.
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput means required fields were empty or out of range.
	ErrInvalidInput = errors.New("invalid input")
)
