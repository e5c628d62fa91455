package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dchaban/taskdeck-server/internal/api/http/cookie"
	"github.com/dchaban/taskdeck-server/internal/api/http/httpctx"
	"github.com/dchaban/taskdeck-server/internal/apierrors"
	"github.com/dchaban/taskdeck-server/internal/logger"
	"github.com/dchaban/taskdeck-server/internal/model"
	"github.com/dchaban/taskdeck-server/internal/service"
)

// AuthService defines the identity operations the handler needs.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (model.User, error)
	VerifyEmail(ctx context.Context, rawSecret string) error
	Login(ctx context.Context, login, password, deviceInfo, ip string) (model.User, service.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawSecret, newPassword string) error
}

// SessionService defines the refresh rotation operation.
type SessionService interface {
	Rotate(ctx context.Context, presented, deviceInfo, ip string) (service.TokenPair, error)
}

// Auth handles the HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	sessionService SessionService
	cookies        *cookie.Writer
	ctxManager     *httpctx.Manager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	sessionService SessionService,
	cookies *cookie.Writer,
	ctxManager *httpctx.Manager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		sessionService: sessionService,
		cookies:        cookies,
		ctxManager:     ctxManager,
		logger:         logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type userResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	FullName      string     `json:"full_name"`
	Role          model.Role `json:"role"`
	EmailVerified bool       `json:"email_verified"`
}

func toUserResponse(user model.User) userResponse {
	return userResponse{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		FullName:      user.FullName,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	}
}

// Register creates an account and sends the verification code.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apierrors.NewValidation("invalid request body"))
		return
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleMember
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

type verifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyEmail redeems an email verification code.
func (h *Auth) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apierrors.NewValidation("invalid request body"))
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), req.Code); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

// Login verifies credentials and issues a token pair, as both JSON and
// cookies.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apierrors.NewValidation("invalid request body"))
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.Login, req.Password,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.cookies.SetPair(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUserResponse(user),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a refresh token presented in the cookie or the body.
func (h *Auth) Refresh(c *gin.Context) {
	presented := h.refreshTokenFromRequest(c)
	if presented == "" {
		h.respondError(c, apierrors.NewAuthenticationRequired())
		return
	}

	pair, err := h.sessionService.Rotate(c.Request.Context(), presented,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.cookies.SetPair(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Logout denies the presented access token and deletes the paired
// refresh session. A missing refresh cookie is a no-op success.
func (h *Auth) Logout(c *gin.Context) {
	user, ok := h.ctxManager.GetUser(c)
	if !ok {
		h.respondError(c, apierrors.NewAuthenticationRequired())
		return
	}
	accessToken, _ := h.ctxManager.GetBearer(c)
	refreshToken := h.refreshTokenFromRequest(c)

	if err := h.authService.Logout(c.Request.Context(), user.ID, accessToken, refreshToken); err != nil {
		h.respondError(c, err)
		return
	}

	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type resetRequestRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestPasswordReset mints and mails a reset code. The response does
// not reveal whether the email is registered.
func (h *Auth) RequestPasswordReset(c *gin.Context) {
	var req resetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apierrors.NewValidation("invalid request body"))
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "if the email is registered, a reset code was sent"})
}

type resetConfirmRequest struct {
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword redeems a reset code and sets the new password.
func (h *Auth) ResetPassword(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apierrors.NewValidation("invalid request body"))
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Code, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// Me returns the authenticated caller.
func (h *Auth) Me(c *gin.Context) {
	user, ok := h.ctxManager.GetUser(c)
	if !ok {
		h.respondError(c, apierrors.NewAuthenticationRequired())
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Auth) refreshTokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(cookie.RefreshName); err == nil && v != "" {
		return v
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *Auth) respondError(c *gin.Context, err error) {
	apiErr := translate(err)
	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"path", c.FullPath(),
			"error", err.Error())
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
