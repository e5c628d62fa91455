package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dchaban/taskdeck-server/internal/api/http/httpctx"
	"github.com/dchaban/taskdeck-server/internal/apierrors"
	"github.com/dchaban/taskdeck-server/internal/logger"
)

// Project exposes the project-scoped probe endpoints sitting behind the
// authorization middleware. The full project/task CRUD belongs to the
// business layer.
type Project struct {
	ctxManager *httpctx.Manager
	logger     *logger.Logger
}

// NewProject creates a new Project handler.
func NewProject(ctxManager *httpctx.Manager, logger *logger.Logger) *Project {
	return &Project{ctxManager: ctxManager, logger: logger}
}

// Role returns the caller's resolved membership for the project.
func (h *Project) Role(c *gin.Context) {
	membership, ok := h.ctxManager.GetMembership(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierrors.NewInternal())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"membership_id": membership.ID,
		"project_id":    membership.ProjectID,
		"role":          membership.Role,
	})
}

// Settings is the admin-level probe route; it confirms the caller may
// manage the project.
func (h *Project) Settings(c *gin.Context) {
	membership, ok := h.ctxManager.GetMembership(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierrors.NewInternal())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": membership.ProjectID,
		"manageable": true,
	})
}
