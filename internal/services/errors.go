package services

import (
	"errors"

	"storefront/internal/repositories"
)

// Errors returned by services; match them with errors.Is.
var (
	ErrNotFound      = repositories.ErrNotFound
	ErrDuplicate     = repositories.ErrDuplicate
	ErrInvalidInput  = repositories.ErrInvalidInput
	ErrHasDependents = repositories.ErrHasDependents
	ErrEmptyCart     = repositories.ErrEmptyCart
)

// ErrUnauthenticated is returned when an operation needs a caller identity.
var ErrUnauthenticated = errors.New("authentication credentials were not provided")

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
