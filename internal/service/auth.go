package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dchaban/taskdeck-server/internal/apierrors"
	"github.com/dchaban/taskdeck-server/internal/logger"
	"github.com/dchaban/taskdeck-server/internal/mail"
	"github.com/dchaban/taskdeck-server/internal/model"
	"github.com/dchaban/taskdeck-server/internal/token"
)

// Auth implements registration, login, email verification, password
// reset and logout on top of the stores and the token minter.
type Auth struct {
	users       model.UserStore
	sessions    *Session
	revocations model.RevocationStore
	manager     model.TokenManager
	secrets     model.SecretMinter
	mailer      mail.Mailer
	logger      *logger.Logger
	bcryptCost  int
}

func NewAuth(
	users model.UserStore,
	sessions *Session,
	revocations model.RevocationStore,
	manager model.TokenManager,
	secrets model.SecretMinter,
	mailer mail.Mailer,
	logger *logger.Logger,
	bcryptCost int,
) *Auth {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Auth{
		users:       users,
		sessions:    sessions,
		revocations: revocations,
		manager:     manager,
		secrets:     secrets,
		mailer:      mailer,
		logger:      logger,
		bcryptCost:  bcryptCost,
	}
}

// RegisterParams carries validated registration input.
type RegisterParams struct {
	Email    string
	Username string
	FullName string
	Password string
	Role     model.Role
}

// Register creates a user, mints an email-verification secret and
// dispatches it. Only the secret's hash is persisted.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	username := strings.ToLower(strings.TrimSpace(params.Username))

	if email == "" || username == "" || params.Password == "" {
		return model.User{}, apierrors.NewValidation("email, username and password are required")
	}
	if !params.Role.Valid() {
		return model.User{}, apierrors.NewValidation("unknown role")
	}

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		return model.User{}, apierrors.NewDuplicate("email already registered")
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := a.users.GetByUsername(ctx, username); err == nil {
		return model.User{}, apierrors.NewDuplicate("username already taken")
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), a.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	raw, hash, expiresAt, err := a.secrets.Mint()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to mint verification secret: %w", err)
	}

	user := model.User{
		ID:                    uuid.New(),
		Email:                 email,
		Username:              username,
		FullName:              strings.TrimSpace(params.FullName),
		PasswordHash:          string(passwordHash),
		Role:                  params.Role,
		VerificationHash:      &hash,
		VerificationExpiresAt: &expiresAt,
	}

	saved, err := a.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			return model.User{}, apierrors.NewDuplicate("email or username already taken")
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err := a.mailer.Send(ctx, saved.Email, "Verify your email",
		fmt.Sprintf("Your verification code: %s", raw)); err != nil {
		// The account exists; the user can request a reset later.
		a.logger.Error("failed to send verification mail",
			"user_id", saved.ID,
			"error", err.Error())
	}

	a.logger.Info("user registered",
		"user_id", saved.ID,
		"username", saved.Username)

	return saved, nil
}

// VerifyPassword runs the bcrypt comparison. The stored hash is never
// logged or returned.
func (a *Auth) VerifyPassword(user model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// VerifyEmail redeems a verification secret. A secret is single use:
// the hash is cleared in the same update that sets the flag, so a
// second presentation fails like an unknown secret. Verifying an
// already-verified user is a client error, not a silent success.
func (a *Auth) VerifyEmail(ctx context.Context, rawSecret string) error {
	if rawSecret == "" {
		return apierrors.NewValidation("verification code is required")
	}

	user, err := a.users.GetByVerificationHash(ctx, a.secrets.Hash(rawSecret))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrSecretInvalid
		}
		return fmt.Errorf("failed to look up verification secret: %w", err)
	}

	if user.EmailVerified {
		return model.ErrAlreadyVerified
	}
	if user.VerificationExpiresAt == nil || !time.Now().Before(*user.VerificationExpiresAt) {
		return model.ErrSecretExpired
	}

	if err := a.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	a.logger.Info("email verified", "user_id", user.ID)
	return nil
}

// Login verifies credentials and issues a token pair. The login value
// matches either email or username; failures stay coarse-grained.
func (a *Auth) Login(ctx context.Context, login, password, deviceInfo, ip string) (model.User, TokenPair, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || password == "" {
		return model.User{}, TokenPair{}, apierrors.NewValidation("login and password are required")
	}

	user, err := a.users.GetByEmail(ctx, login)
	if errors.Is(err, model.ErrNotFound) {
		user, err = a.users.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, TokenPair{}, model.ErrInvalidCredentials
		}
		return model.User{}, TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !a.VerifyPassword(user, password) {
		return model.User{}, TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := a.sessions.Issue(ctx, user.ID, deviceInfo, ip)
	if err != nil {
		return model.User{}, TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Logout denies the presented access token for the rest of its life and
// kills the paired refresh session when a refresh token is presented.
// A missing refresh token is not an error.
func (a *Auth) Logout(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string) error {
	expiresAt, err := a.manager.AccessTokenExpiry(accessToken)
	switch {
	case err == nil:
		record := model.RevokedAccessToken{
			TokenHash: token.HashToken(accessToken),
			UserID:    userID,
			ExpiresAt: expiresAt,
			RevokedAt: time.Now(),
		}
		if err := a.revocations.Add(ctx, record); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
	case errors.Is(err, model.ErrTokenExpired):
		// Nothing to deny: the token is already dead.
	default:
		return fmt.Errorf("failed to read access token expiry: %w", err)
	}

	if refreshToken != "" {
		if err := a.sessions.store.DeleteByToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to delete refresh session: %w", err)
		}
	}

	a.logger.Info("user logged out", "user_id", userID)
	return nil
}

// RequestPasswordReset mints and mails a reset secret. An unknown email
// is reported as success so the endpoint cannot enumerate accounts.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apierrors.NewValidation("email is required")
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Debug("password reset for unknown email", "email", email)
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	raw, hash, expiresAt, err := a.secrets.Mint()
	if err != nil {
		return fmt.Errorf("failed to mint reset secret: %w", err)
	}

	if err := a.users.SetResetSecret(ctx, user.ID, hash, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset secret: %w", err)
	}

	if err := a.mailer.Send(ctx, user.Email, "Password reset",
		fmt.Sprintf("Your password reset code: %s", raw)); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	a.logger.Info("password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword redeems a reset secret and replaces the password. All
// refresh sessions of the user die with the old password.
func (a *Auth) ResetPassword(ctx context.Context, rawSecret, newPassword string) error {
	if rawSecret == "" || newPassword == "" {
		return apierrors.NewValidation("reset code and new password are required")
	}

	user, err := a.users.GetByResetHash(ctx, a.secrets.Hash(rawSecret))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrSecretInvalid
		}
		return fmt.Errorf("failed to look up reset secret: %w", err)
	}

	if user.ResetExpiresAt == nil || !time.Now().Before(*user.ResetExpiresAt) {
		return model.ErrSecretExpired
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.users.UpdatePassword(ctx, user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := a.sessions.RevokeAllForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	a.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}
