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

func TestMembershipRepository_GetByProjectAndUser(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewMembershipRepository(conn)

	id := uuid.New()
	projectID := uuid.New()
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "project_id", "user_id", "role", "created_at"}).
		AddRow(id, projectID, userID, model.RoleProjectAdmin, time.Now())

	mock.ExpectQuery(`FROM project_memberships WHERE project_id = \$1 AND user_id = \$2`).
		WithArgs(projectID, userID).
		WillReturnRows(rows)

	m, err := repo.GetByProjectAndUser(context.Background(), projectID, userID)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, model.RoleProjectAdmin, m.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_GetByProjectAndUser_NotAMember(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewMembershipRepository(conn)

	mock.ExpectQuery(`FROM project_memberships WHERE project_id = \$1 AND user_id = \$2`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "user_id", "role", "created_at"}))

	_, err := repo.GetByProjectAndUser(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
