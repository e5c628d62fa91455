package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dchaban/taskdeck-server/internal/model"
)

var _ model.MembershipStore = (*MembershipRepository)(nil)

// MembershipRepository reads project membership rows. Writes are owned
// by the business layer.
type MembershipRepository struct {
	db *Connection
}

func NewMembershipRepository(db *Connection) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) GetByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (model.ProjectMembership, error) {
	const query = `
        SELECT id, project_id, user_id, role, created_at
        FROM project_memberships WHERE project_id = $1 AND user_id = $2
    `

	var m model.ProjectMembership
	err := r.db.QueryRowContext(ctx, query, projectID, userID).Scan(
		&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ProjectMembership{}, model.ErrNotFound
		}
		return model.ProjectMembership{}, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}
