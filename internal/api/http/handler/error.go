package handler

import (
	"errors"

	"github.com/dchaban/taskdeck-server/internal/apierrors"
	"github.com/dchaban/taskdeck-server/internal/model"
)

// translate maps service and store errors onto the client-visible
// taxonomy. Anything unmapped becomes a 500 and is logged by the
// caller; raw internals never reach the client.
func translate(err error) *apierrors.APIError {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, model.ErrDuplicate):
		return apierrors.NewDuplicate("already exists")
	case errors.Is(err, model.ErrInvalidCredentials):
		return apierrors.NewAuthenticationRequired()
	case errors.Is(err, model.ErrAlreadyVerified):
		return apierrors.NewValidation("email already verified")
	case errors.Is(err, model.ErrSecretInvalid):
		return apierrors.NewValidation("invalid or unknown code")
	case errors.Is(err, model.ErrSecretExpired):
		return apierrors.NewValidation("code expired, request a new one")
	case errors.Is(err, model.ErrSessionExpired), errors.Is(err, model.ErrTokenExpired):
		return apierrors.NewSessionExpired()
	case errors.Is(err, model.ErrSessionInvalid), errors.Is(err, model.ErrTokenInvalid):
		return apierrors.NewInvalidToken()
	case errors.Is(err, model.ErrNotFound):
		return apierrors.NewNotFound("not found")
	default:
		return apierrors.NewInternal()
	}
}
