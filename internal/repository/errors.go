package repository

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist or is not visible to the caller.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey indicates a unique constraint violation.
	ErrDuplicateKey = errors.New("duplicate key")
)
