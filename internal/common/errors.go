// Package common defines sentinel errors shared between the repository and
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrVersionConflict is returned by a repository when a versioned
	// UPDATE/DELETE matched the row id but not the expected version, i.e.
	// a concurrent writer got there first.
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
)
