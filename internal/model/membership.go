package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a project-scoped (or, on User, global default) role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProjectAdmin Role = "project_admin"
	RoleMember       Role = "member"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectAdmin, RoleMember:
		return true
	}
	return false
}

// Level returns the position in the hierarchy admin > project_admin >
// member. It exists for reasoning and ordering; route allow-lists are
// evaluated as exact set membership, not by level.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleProjectAdmin:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

// MembershipStore resolves (project, user) bindings for authorization
// decisions. Membership writes belong to the business layer; this
// subsystem only reads.
type MembershipStore interface {
	GetByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (ProjectMembership, error)
}

// ProjectMembership binds a user to a project with a role.
type ProjectMembership struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
}
