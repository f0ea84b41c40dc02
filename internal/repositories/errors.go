package repositories

import "errors"

var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicate     = errors.New("duplicate resource")
	ErrInvalidInput  = errors.New("invalid input data")
	ErrHasDependents = errors.New("resource has dependent records")
	ErrEmptyCart     = errors.New("cart is empty")
)
