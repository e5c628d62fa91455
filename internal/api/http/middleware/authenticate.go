package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dchaban/taskdeck-server/internal/api/http/cookie"
	"github.com/dchaban/taskdeck-server/internal/api/http/httpctx"
	"github.com/dchaban/taskdeck-server/internal/apierrors"
	"github.com/dchaban/taskdeck-server/internal/logger"
	"github.com/dchaban/taskdeck-server/internal/model"
	"github.com/dchaban/taskdeck-server/internal/token"
)

// Authenticate is the per-request gate: extract a bearer credential,
// verify signature and expiry, consult the deny-list, load the user and
// attach it to the request context. There is no in-process caching; the
// registry is re-checked on every request so revocation takes effect
// immediately.
type Authenticate struct {
	manager     model.TokenManager
	revocations model.RevocationStore
	users       model.UserStore
	ctxManager  *httpctx.Manager
	logger      *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	manager model.TokenManager,
	revocations model.RevocationStore,
	users model.UserStore,
	ctxManager *httpctx.Manager,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		manager:     manager,
		revocations: revocations,
		users:       users,
		ctxManager:  ctxManager,
		logger:      logger,
	}
}

// Handle returns the gin middleware function.
func (m *Authenticate) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			// Header and cookie absence are indistinguishable to the caller.
			abortWith(c, apierrors.NewAuthenticationRequired())
			return
		}

		userID, err := m.manager.ParseAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, model.ErrTokenExpired) {
				abortWith(c, apierrors.NewSessionExpired())
				return
			}
			abortWith(c, apierrors.NewInvalidToken())
			return
		}

		revoked, err := m.revocations.IsRevoked(c.Request.Context(), token.HashToken(tokenString), time.Now())
		if err != nil {
			m.logger.Error("failed to check revocation registry", "error", err.Error())
			abortWith(c, apierrors.NewInternal())
			return
		}
		if revoked {
			// Revoked reads as expired; the deny-list stays unobservable.
			abortWith(c, apierrors.NewSessionExpired())
			return
		}

		user, err := m.loadUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// A deleted account is an authentication failure, not a 404.
				abortWith(c, apierrors.NewAuthenticationRequired())
				return
			}
			m.logger.Error("failed to load user", "error", err.Error())
			abortWith(c, apierrors.NewInternal())
			return
		}

		m.ctxManager.SetUser(c, user)
		m.ctxManager.SetBearer(c, tokenString)
		c.Next()
	}
}

func (m *Authenticate) loadUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	if userID == uuid.Nil {
		return model.User{}, model.ErrNotFound
	}
	return m.users.GetByID(ctx, userID)
}

// extractBearer prefers the Authorization header and falls back to the
// access token cookie.
func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}

	if v, err := c.Cookie(cookie.AccessName); err == nil {
		return v
	}
	return ""
}

func abortWith(c *gin.Context, apiErr *apierrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
