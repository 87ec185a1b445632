package domain

import "errors"

// Error taxonomy shared by services and the HTTP boundary.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("access denied")
	ErrInvalidTokenFormat = errors.New("invalid token format")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyLiked       = errors.New("already liked")
	ErrDependency         = errors.New("dependency unavailable")
)
