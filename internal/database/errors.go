package database

import "errors"

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID means a record with the same ID already exists.
	ErrDuplicateID = errors.New("duplicate record id")
)
