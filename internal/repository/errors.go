package repository

import "errors"

var (
	// ErrDuplicateCategory is returned when an add would violate slug or name
	// uniqueness. The existing record is left untouched.
	ErrDuplicateCategory = errors.New("category already exists")

	// ErrBlankName is returned for blank or whitespace-only category names.
	ErrBlankName = errors.New("name is blank")

	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")
)
