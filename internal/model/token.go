package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager generates and validates access/refresh tokens. Access and
// refresh tokens are signed with separate secrets so compromise of one
// does not compromise the other.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (uuid.UUID, error)
	// AccessTokenExpiry returns the exp claim of a valid access token.
	// Used by the revocation registry so deny-list entries die exactly
	// when the token they block would have expired anyway.
	AccessTokenExpiry(token string) (time.Time, error)
}

// SecretMinter produces one-time action secrets (email verification,
// password reset) as a raw value for the user and a peppered one-way
// hash for storage.
type SecretMinter interface {
	Mint() (raw string, hash string, expiresAt time.Time, err error)
	Hash(raw string) string
}
