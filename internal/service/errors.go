package service

import "errors"

// Validation failures. Surfaced before any mutation is applied, so an
// invalid payload never partially lands.
var (
	ErrEmptyTitle   = errors.New("title is required")
	ErrEmptyName    = errors.New("name is required")
	ErrInvalidEmail = errors.New("invalid email address")
)
