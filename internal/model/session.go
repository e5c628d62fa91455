package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshSessionStore persists active refresh sessions. A session row is
// the only place the raw refresh token is stored; consuming it deletes
// the row, so the same raw value can never be redeemed twice.
type RefreshSessionStore interface {
	Create(ctx context.Context, session RefreshSession) error
	// ConsumeByToken atomically deletes the row matching the raw token
	// and returns it. ErrNotFound means the token was already used,
	// forged, or never issued; under concurrent redemption exactly one
	// caller receives the row.
	ConsumeByToken(ctx context.Context, token string) (RefreshSession, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RefreshSession ties a long-lived refresh token to a user and device.
// Rotation deletes the row rather than marking it, so no status column
// is needed: existence means active.
type RefreshSession struct {
	ID         uuid.UUID
	Token      string
	UserID     uuid.UUID
	DeviceInfo string
	IP         string
	IssuedAt   time.Time
	LastUsedAt time.Time
	ExpiresAt  time.Time
}
