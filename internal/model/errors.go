package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches the query.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyVerified    = errors.New("email already verified")

	// ErrSecretInvalid covers unknown, forged and already consumed
	// action secrets alike so callers cannot probe which it was.
	ErrSecretInvalid = errors.New("action secret invalid")
	ErrSecretExpired = errors.New("action secret expired")
)
