package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByVerificationHash(ctx context.Context, hash string) (User, error)
	GetByResetHash(ctx context.Context, hash string) (User, error)
	// MarkEmailVerified sets the verified flag and clears the
	// verification hash and expiry in a single update.
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	SetResetSecret(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	// UpdatePassword replaces the password hash and clears the reset
	// hash and expiry so the secret cannot be redeemed twice.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// User represents a stored user with authentication material.
// The password is held only as a bcrypt hash; the verification and
// reset fields hold peppered SHA-256 digests of one-time action
// secrets, never the raw values.
type User struct {
	ID                    uuid.UUID
	Email                 string
	Username              string
	FullName              string
	PasswordHash          string
	Role                  Role
	EmailVerified         bool
	VerificationHash      *string
	VerificationExpiresAt *time.Time
	ResetHash             *string
	ResetExpiresAt        *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
