package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dchaban/taskdeck-server/internal/model"
)

var _ model.RefreshSessionStore = (*RefreshSessionRepository)(nil)

type RefreshSessionRepository struct {
	db *Connection
}

func NewRefreshSessionRepository(db *Connection) *RefreshSessionRepository {
	return &RefreshSessionRepository{db: db}
}

func (r *RefreshSessionRepository) Create(ctx context.Context, session model.RefreshSession) error {
	const query = `
        INSERT INTO refresh_sessions (id, token, user_id, device_info, ip, issued_at, last_used_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.Token, session.UserID, session.DeviceInfo, session.IP,
		session.IssuedAt, session.LastUsedAt, session.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicate
		}
		return fmt.Errorf("failed to create refresh session: %w", err)
	}
	return nil
}

// ConsumeByToken deletes the row and returns it in a single statement.
// Under concurrent redemption of the same raw token the database hands
// the deleted row to exactly one caller; the rest see ErrNotFound.
func (r *RefreshSessionRepository) ConsumeByToken(ctx context.Context, token string) (model.RefreshSession, error) {
	const query = `
        DELETE FROM refresh_sessions WHERE token = $1
        RETURNING id, token, user_id, device_info, ip, issued_at, last_used_at, expires_at
    `

	var s model.RefreshSession
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&s.ID, &s.Token, &s.UserID, &s.DeviceInfo, &s.IP,
		&s.IssuedAt, &s.LastUsedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RefreshSession{}, model.ErrNotFound
		}
		return model.RefreshSession{}, fmt.Errorf("failed to consume refresh session: %w", err)
	}
	return s, nil
}

func (r *RefreshSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	const query = `DELETE FROM refresh_sessions WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete refresh session: %w", err)
	}
	return nil
}

func (r *RefreshSessionRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	const query = `DELETE FROM refresh_sessions WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete refresh sessions for user: %w", err)
	}
	return nil
}

func (r *RefreshSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM refresh_sessions WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted refresh sessions: %w", err)
	}
	return n, nil
}
