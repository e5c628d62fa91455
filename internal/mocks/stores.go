// Package mocks provides testify mocks for the store and manager
// interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dchaban/taskdeck-server/internal/model"
)

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByVerificationHash(ctx context.Context, hash string) (model.User, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByResetHash(ctx context.Context, hash string) (model.User, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserStore) SetResetSecret(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	args := m.Called(ctx, id, hash, expiresAt)
	return args.Error(0)
}

func (m *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// RefreshSessionStore is a mock of model.RefreshSessionStore.
type RefreshSessionStore struct {
	mock.Mock
}

func (m *RefreshSessionStore) Create(ctx context.Context, session model.RefreshSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *RefreshSessionStore) ConsumeByToken(ctx context.Context, token string) (model.RefreshSession, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.RefreshSession), args.Error(1)
}

func (m *RefreshSessionStore) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshSessionStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *RefreshSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// RevocationStore is a mock of model.RevocationStore.
type RevocationStore struct {
	mock.Mock
}

func (m *RevocationStore) Add(ctx context.Context, record model.RevokedAccessToken) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *RevocationStore) IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	args := m.Called(ctx, tokenHash, now)
	return args.Bool(0), args.Error(1)
}

func (m *RevocationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MembershipStore is a mock of model.MembershipStore.
type MembershipStore struct {
	mock.Mock
}

func (m *MembershipStore) GetByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (model.ProjectMembership, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Get(0).(model.ProjectMembership), args.Error(1)
}
