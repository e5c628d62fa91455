package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RevocationStore is the deny-list of access tokens invalidated before
// their natural expiry. Tokens are keyed by SHA-256 hash so raw values
// never land in the database. Rows become irrelevant the moment the
// token itself expires, so the janitor sweeps them by ExpiresAt.
type RevocationStore interface {
	Add(ctx context.Context, record RevokedAccessToken) error
	IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RevokedAccessToken records a single denied access token. ExpiresAt is
// copied from the token's own exp claim, never re-derived.
type RevokedAccessToken struct {
	TokenHash string
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt time.Time
}
