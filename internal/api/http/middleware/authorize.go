package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dchaban/taskdeck-server/internal/api/http/httpctx"
	"github.com/dchaban/taskdeck-server/internal/apierrors"
	"github.com/dchaban/taskdeck-server/internal/logger"
	"github.com/dchaban/taskdeck-server/internal/model"
)

// Authorize resolves the caller's membership for the project named in
// the route and checks it against a per-route role allow-list.
type Authorize struct {
	memberships model.MembershipStore
	ctxManager  *httpctx.Manager
	logger      *logger.Logger
}

// NewAuthorize creates a new Authorize middleware instance.
func NewAuthorize(memberships model.MembershipStore, ctxManager *httpctx.Manager, logger *logger.Logger) *Authorize {
	return &Authorize{memberships: memberships, ctxManager: ctxManager, logger: logger}
}

// RequireProjectRole returns a middleware allowing only members whose
// project role is in the given set. Allow-lists are exact: a role
// outside the set is denied regardless of its place in the hierarchy,
// so "member or above" routes enumerate all three roles.
func (m *Authorize) RequireProjectRole(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := m.ctxManager.GetUser(c)
		if !ok {
			// Authorization without authentication is a wiring bug.
			m.logger.Error("authorize middleware ran without authenticated identity",
				"path", c.FullPath())
			abortWith(c, apierrors.NewInternal())
			return
		}

		projectID, err := uuid.Parse(c.Param("projectID"))
		if err != nil {
			abortWith(c, apierrors.NewValidation("invalid project id"))
			return
		}

		membership, err := m.memberships.GetByProjectAndUser(c.Request.Context(), projectID, user.ID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// 403, not 404: the project's existence is not secret,
				// but the handler must not proceed.
				abortWith(c, apierrors.NewNotAMember())
				return
			}
			m.logger.Error("failed to resolve membership",
				"project_id", projectID,
				"user_id", user.ID,
				"error", err.Error())
			abortWith(c, apierrors.NewInternal())
			return
		}

		if _, ok := allowed[membership.Role]; !ok {
			abortWith(c, apierrors.NewInsufficientRole())
			return
		}

		m.ctxManager.SetMembership(c, membership)
		c.Next()
	}
}
