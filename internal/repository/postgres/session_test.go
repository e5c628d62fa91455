package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dchaban/taskdeck-server/internal/model"
)

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Connection{DB: db}, mock
}

func TestRefreshSessionRepository_Create(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewRefreshSessionRepository(conn)

	session := model.RefreshSession{
		ID:         uuid.New(),
		Token:      "refresh-token",
		UserID:     uuid.New(),
		DeviceInfo: "ua",
		IP:         "1.2.3.4",
		IssuedAt:   time.Now(),
		LastUsedAt: time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	mock.ExpectExec(`INSERT INTO refresh_sessions`).
		WithArgs(session.ID, session.Token, session.UserID, session.DeviceInfo, session.IP,
			session.IssuedAt, session.LastUsedAt, session.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), session))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshSessionRepository_ConsumeByToken(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewRefreshSessionRepository(conn)

	id := uuid.New()
	userID := uuid.New()
	issuedAt := time.Now().Add(-time.Hour)
	expiresAt := time.Now().Add(time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "token", "user_id", "device_info", "ip", "issued_at", "last_used_at", "expires_at",
	}).AddRow(id, "refresh-token", userID, "ua", "1.2.3.4", issuedAt, issuedAt, expiresAt)

	mock.ExpectQuery(`DELETE FROM refresh_sessions WHERE token = \$1\s+RETURNING`).
		WithArgs("refresh-token").
		WillReturnRows(rows)

	session, err := repo.ConsumeByToken(context.Background(), "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, id, session.ID)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, "refresh-token", session.Token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshSessionRepository_ConsumeByToken_AlreadyConsumed(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewRefreshSessionRepository(conn)

	// Second redemption of the same token finds no row.
	mock.ExpectQuery(`DELETE FROM refresh_sessions WHERE token = \$1\s+RETURNING`).
		WithArgs("refresh-token").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "token", "user_id", "device_info", "ip", "issued_at", "last_used_at", "expires_at",
		}))

	_, err := repo.ConsumeByToken(context.Background(), "refresh-token")
	require.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshSessionRepository_DeleteByToken(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewRefreshSessionRepository(conn)

	mock.ExpectExec(`DELETE FROM refresh_sessions WHERE token = \$1`).
		WithArgs("refresh-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteByToken(context.Background(), "refresh-token"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshSessionRepository_DeleteAllForUser(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewRefreshSessionRepository(conn)
	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM refresh_sessions WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.DeleteAllForUser(context.Background(), userID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshSessionRepository_DeleteExpired(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewRefreshSessionRepository(conn)
	now := time.Now()

	mock.ExpectExec(`DELETE FROM refresh_sessions WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
