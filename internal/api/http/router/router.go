// Package router wires handlers and the middleware chain into a gin
// engine.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dchaban/taskdeck-server/internal/api/http/cookie"
	"github.com/dchaban/taskdeck-server/internal/api/http/handler"
	"github.com/dchaban/taskdeck-server/internal/api/http/httpctx"
	"github.com/dchaban/taskdeck-server/internal/api/http/middleware"
	"github.com/dchaban/taskdeck-server/internal/logger"
	"github.com/dchaban/taskdeck-server/internal/model"
	"github.com/dchaban/taskdeck-server/internal/service"
)

// Router assembles the HTTP surface: public auth routes, authenticated
// routes, and project routes behind the role check.
type Router struct {
	authService    *service.Auth
	sessionService *service.Session
	manager        model.TokenManager
	users          model.UserStore
	revocations    model.RevocationStore
	memberships    model.MembershipStore
	cookies        *cookie.Writer
	stats          *middleware.RequestStats
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	sessionService *service.Session,
	manager model.TokenManager,
	users model.UserStore,
	revocations model.RevocationStore,
	memberships model.MembershipStore,
	cookies *cookie.Writer,
	stats *middleware.RequestStats,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		sessionService: sessionService,
		manager:        manager,
		users:          users,
		revocations:    revocations,
		memberships:    memberships,
		cookies:        cookies,
		stats:          stats,
		logger:         logger,
	}
}

// Register builds the gin engine with all routes and middleware.
func (r *Router) Register() *gin.Engine {
	ctxManager := httpctx.NewManager()

	logging := middleware.NewLogging(r.logger, r.stats)
	authenticate := middleware.NewAuthenticate(r.manager, r.revocations, r.users, ctxManager, r.logger)
	authorize := middleware.NewAuthorize(r.memberships, ctxManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.sessionService, r.cookies, ctxManager, r.logger)
	projectHandler := handler.NewProject(ctxManager, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	api.Use(logging.Handle())

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/verify-email", authHandler.VerifyEmail)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/password-reset/request", authHandler.RequestPasswordReset)
	authGroup.POST("/password-reset/confirm", authHandler.ResetPassword)

	authed := api.Group("")
	authed.Use(authenticate.Handle())
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/logout", authHandler.Logout)

	projects := authed.Group("/projects/:projectID")
	projects.GET("/role",
		authorize.RequireProjectRole(model.RoleAdmin, model.RoleProjectAdmin, model.RoleMember),
		projectHandler.Role)
	projects.GET("/settings",
		authorize.RequireProjectRole(model.RoleAdmin, model.RoleProjectAdmin),
		projectHandler.Settings)

	return engine
}
