package service

import "github.com/pkg/errors"

var (
	// ErrValidation marks user-correctable input problems.
	ErrValidation = errors.New("service: invalid input")

	// ErrLinkExists is returned with the existing link when the same owner
	// already shortened the same long URL.
	ErrLinkExists = errors.New("service: link already exists for this URL")

	// ErrAliasTaken is returned when a requested custom alias collides with
	// an existing one.
	ErrAliasTaken = errors.New("service: alias already exists")

	// ErrNotFound is returned when an alias resolves to nothing.
	ErrNotFound = errors.New("service: not found")

	// ErrForbidden is returned when a requester asks for analytics on a link
	// owned by someone else.
	ErrForbidden = errors.New("service: forbidden")
)
