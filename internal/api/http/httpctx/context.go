// Package httpctx carries the authenticated identity and the resolved
// project membership through the request context. Handlers learn who is
// calling only through this package.
package httpctx

import (
	"github.com/gin-gonic/gin"

	"github.com/dchaban/taskdeck-server/internal/model"
)

const (
	userKey       = "taskdeck.user"
	bearerKey     = "taskdeck.bearer"
	membershipKey = "taskdeck.membership"
)

// Manager sets and retrieves identity values on a gin request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUser attaches the authenticated user to the request.
func (m *Manager) SetUser(c *gin.Context, user model.User) {
	c.Set(userKey, user)
}

// GetUser returns the authenticated user, if the authentication
// middleware has run.
func (m *Manager) GetUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

// SetBearer attaches the raw presented access token. Logout needs the
// exact credential to place it on the deny-list.
func (m *Manager) SetBearer(c *gin.Context, token string) {
	c.Set(bearerKey, token)
}

// GetBearer returns the raw presented access token.
func (m *Manager) GetBearer(c *gin.Context) (string, bool) {
	v, ok := c.Get(bearerKey)
	if !ok {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}

// SetMembership attaches the resolved project membership so handlers
// never re-query it.
func (m *Manager) SetMembership(c *gin.Context, membership model.ProjectMembership) {
	c.Set(membershipKey, membership)
}

// GetMembership returns the resolved membership, if the authorization
// middleware has run.
func (m *Manager) GetMembership(c *gin.Context) (model.ProjectMembership, bool) {
	v, ok := c.Get(membershipKey)
	if !ok {
		return model.ProjectMembership{}, false
	}
	membership, ok := v.(model.ProjectMembership)
	return membership, ok
}
