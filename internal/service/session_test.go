package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dchaban/taskdeck-server/internal/mocks"
	"github.com/dchaban/taskdeck-server/internal/model"
	"github.com/dchaban/taskdeck-server/internal/testutil"
)

func TestSession_Issue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	manager.On("GenerateAccessToken", userID).Return("access", nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(s model.RefreshSession) bool {
		return s.Token == "refresh" && s.UserID == userID && s.DeviceInfo == "ua" && s.IP == "1.2.3.4"
	})).Return(nil).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	pair, err := svc.Issue(ctx, userID, "ua", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken)
	assert.Equal(t, "refresh", pair.RefreshToken)
	store.AssertExpectations(t)
}

func TestSession_Issue_ManagerError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	manager.On("GenerateAccessToken", userID).Return("", assert.AnError).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Issue(ctx, userID, "ua", "1.2.3.4")
	require.Error(t, err)
}

func TestSession_Rotate_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh-old"

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	manager.On("ParseRefreshToken", presented).Return(userID, nil).Once()
	store.On("ConsumeByToken", ctx, presented).Return(model.RefreshSession{
		ID:        uuid.New(),
		Token:     presented,
		UserID:    userID,
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	manager.On("GenerateAccessToken", userID).Return("access-new", nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh-new", nil).Once()
	store.On("Create", ctx, mock.Anything).Return(nil).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	pair, err := svc.Rotate(ctx, presented, "ua", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "access-new", pair.AccessToken)
	assert.Equal(t, "refresh-new", pair.RefreshToken)
	store.AssertExpectations(t)
}

func TestSession_Rotate_UnknownToken(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh"

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	manager.On("ParseRefreshToken", presented).Return(userID, nil).Once()
	// Already consumed, forged, or never issued: the row is gone.
	store.On("ConsumeByToken", ctx, presented).Return(model.RefreshSession{}, model.ErrNotFound).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Rotate(ctx, presented, "ua", "1.2.3.4")
	require.ErrorIs(t, err, model.ErrSessionInvalid)
}

func TestSession_Rotate_ExpiredRow(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh"

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	manager.On("ParseRefreshToken", presented).Return(userID, nil).Once()
	store.On("ConsumeByToken", ctx, presented).Return(model.RefreshSession{
		Token:     presented,
		UserID:    userID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Rotate(ctx, presented, "ua", "1.2.3.4")
	require.ErrorIs(t, err, model.ErrSessionExpired)
	// No new credentials were minted.
	manager.AssertNotCalled(t, "GenerateAccessToken", mock.Anything)
}

func TestSession_Rotate_ExpiredSignature(t *testing.T) {
	ctx := context.Background()

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	manager.On("ParseRefreshToken", "refresh").Return(uuid.Nil, model.ErrTokenExpired).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Rotate(ctx, "refresh", "ua", "1.2.3.4")
	require.ErrorIs(t, err, model.ErrSessionExpired)
}

func TestSession_Rotate_BadSignature(t *testing.T) {
	ctx := context.Background()

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	manager.On("ParseRefreshToken", "refresh").Return(uuid.Nil, model.ErrTokenInvalid).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Rotate(ctx, "refresh", "ua", "1.2.3.4")
	require.ErrorIs(t, err, model.ErrSessionInvalid)
	store.AssertNotCalled(t, "ConsumeByToken", mock.Anything, mock.Anything)
}

func TestSession_Rotate_UserMismatch(t *testing.T) {
	ctx := context.Background()
	presented := "refresh"

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	manager.On("ParseRefreshToken", presented).Return(uuid.New(), nil).Once()
	store.On("ConsumeByToken", ctx, presented).Return(model.RefreshSession{
		Token:     presented,
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	_, err := svc.Rotate(ctx, presented, "ua", "1.2.3.4")
	require.ErrorIs(t, err, model.ErrSessionInvalid)
}

func TestSession_RevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := &mocks.TokenManager{}
	store := &mocks.RefreshSessionStore{}

	store.On("DeleteAllForUser", ctx, userID).Return(nil).Once()

	svc := NewSession(manager, store, testutil.MakeNoopLogger())

	require.NoError(t, svc.RevokeAllForUser(ctx, userID))
	store.AssertExpectations(t)
}
