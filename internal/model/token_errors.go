package model

import "errors"

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry claim has passed. Middleware maps this to the
	// "session expired" response so clients know to hit the refresh flow.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens, wrong signatures and wrong
	// token types without distinguishing which check failed.
	ErrTokenInvalid = errors.New("token invalid")

	ErrSessionInvalid = errors.New("refresh session invalid")
	ErrSessionExpired = errors.New("refresh session expired")
)
