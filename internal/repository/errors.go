package repository

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repository: record not found")

	// ErrDuplicateAlias is returned when an insert violates the alias
	// uniqueness constraint.
	ErrDuplicateAlias = errors.New("repository: alias already exists")
)
