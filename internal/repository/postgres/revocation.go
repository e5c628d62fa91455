package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dchaban/taskdeck-server/internal/model"
)

var _ model.RevocationStore = (*RevocationRepository)(nil)

type RevocationRepository struct {
	db *Connection
}

func NewRevocationRepository(db *Connection) *RevocationRepository {
	return &RevocationRepository{db: db}
}

// Add inserts a deny-list row. Revoking the same token twice is a
// no-op, which keeps logout idempotent.
func (r *RevocationRepository) Add(ctx context.Context, record model.RevokedAccessToken) error {
	const query = `
        INSERT INTO revoked_access_tokens (token_hash, user_id, expires_at, revoked_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (token_hash) DO NOTHING
    `
	_, err := r.db.ExecContext(ctx, query, record.TokenHash, record.UserID, record.ExpiresAt, record.RevokedAt)
	if err != nil {
		return fmt.Errorf("failed to add revoked token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token hash is on the deny-list. Rows
// past their expiry do not count even before the janitor sweeps them.
func (r *RevocationRepository) IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM revoked_access_tokens WHERE token_hash = $1 AND expires_at > $2)`
	var revoked bool
	if err := r.db.QueryRowContext(ctx, query, tokenHash, now).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return revoked, nil
}

func (r *RevocationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM revoked_access_tokens WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revoked tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted revoked tokens: %w", err)
	}
	return n, nil
}
