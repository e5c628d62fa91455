package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dchaban/taskdeck-server/internal/logger"
	"github.com/dchaban/taskdeck-server/internal/model"
	"github.com/dchaban/taskdeck-server/internal/token"
)

// TokenPair is an access/refresh token pair handed to a client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session issues, rotates and revokes refresh sessions. It composes the
// TokenManager and RefreshSessionStore.
type Session struct {
	manager model.TokenManager
	store   model.RefreshSessionStore
	logger  *logger.Logger
}

func NewSession(manager model.TokenManager, store model.RefreshSessionStore, logger *logger.Logger) *Session {
	return &Session{manager: manager, store: store, logger: logger}
}

// Issue mints a fresh token pair and persists a new session row. It
// never updates in place, so a user holds one session per device.
func (s *Session) Issue(ctx context.Context, userID uuid.UUID, deviceInfo, ip string) (TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	now := time.Now()
	session := model.RefreshSession{
		ID:         uuid.New(),
		Token:      refresh,
		UserID:     userID,
		DeviceInfo: deviceInfo,
		IP:         ip,
		IssuedAt:   now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(token.RefreshTTL),
	}

	if err := s.store.Create(ctx, session); err != nil {
		return TokenPair{}, fmt.Errorf("persist refresh session: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Rotate consumes a presented refresh token and issues a new pair. The
// old session row is deleted before new credentials exist: an absent
// row means the token was already used, forged, or never issued, and
// two concurrent redemptions of the same raw value cannot both succeed.
func (s *Session) Rotate(ctx context.Context, presented string, deviceInfo, ip string) (TokenPair, error) {
	userID, err := s.manager.ParseRefreshToken(presented)
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return TokenPair{}, model.ErrSessionExpired
		}
		return TokenPair{}, model.ErrSessionInvalid
	}

	session, err := s.store.ConsumeByToken(ctx, presented)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("refresh token replay or unknown token",
				"user_id", userID)
			return TokenPair{}, model.ErrSessionInvalid
		}
		return TokenPair{}, fmt.Errorf("consume refresh session: %w", err)
	}

	now := time.Now()
	if !now.Before(session.ExpiresAt) {
		// The row is already gone, which is the safer state.
		return TokenPair{}, model.ErrSessionExpired
	}
	if session.UserID != userID {
		return TokenPair{}, model.ErrSessionInvalid
	}

	pair, err := s.Issue(ctx, userID, deviceInfo, ip)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue rotated pair: %w", err)
	}
	return pair, nil
}

// RevokeAllForUser drops every session of the user ("log out
// everywhere").
func (s *Session) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions for user: %w", err)
	}
	return nil
}
