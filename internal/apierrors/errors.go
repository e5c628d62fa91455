// Package apierrors defines the client-visible error taxonomy. Every
// failure leaving this subsystem is one of these; store and token
// internals are translated at the handler/middleware boundary and never
// passed through raw.
package apierrors

import "net/http"

// APIError carries an HTTP status, a stable machine-readable code and a
// human message. Internal details stay server-side.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewValidation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "validation_failed", Message: message}
}

func NewDuplicate(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: "duplicate", Message: message}
}

// NewAuthenticationRequired covers both "no credential" and "invalid
// credentials" at login; the coarse grain is deliberate.
func NewAuthenticationRequired() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: "authentication_required", Message: "authentication required"}
}

// NewSessionExpired tells the client to hit the refresh flow rather
// than re-login from scratch. Revoked tokens answer identically.
func NewSessionExpired() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: "session_expired", Message: "session expired, please re-authenticate"}
}

// NewInvalidToken is the generic answer for malformed or badly signed
// tokens; it does not reveal which check failed.
func NewInvalidToken() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: "invalid_token", Message: "invalid token"}
}

func NewNotAMember() *APIError {
	return &APIError{Status: http.StatusForbidden, Code: "not_a_member", Message: "not a member of this project"}
}

func NewInsufficientRole() *APIError {
	return &APIError{Status: http.StatusForbidden, Code: "insufficient_role", Message: "insufficient role for this operation"}
}

func NewNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: "not_found", Message: message}
}

func NewInternal() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal server error"}
}
