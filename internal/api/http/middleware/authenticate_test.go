package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dchaban/taskdeck-server/internal/api/http/cookie"
	"github.com/dchaban/taskdeck-server/internal/api/http/httpctx"
	"github.com/dchaban/taskdeck-server/internal/mocks"
	"github.com/dchaban/taskdeck-server/internal/model"
	"github.com/dchaban/taskdeck-server/internal/testutil"
	"github.com/dchaban/taskdeck-server/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authenticateFixture struct {
	manager     *mocks.TokenManager
	revocations *mocks.RevocationStore
	users       *mocks.UserStore
	ctxManager  *httpctx.Manager
	engine      *gin.Engine
}

// newAuthenticateFixture builds an engine with the middleware under
// test and a probe handler that reports the attached identity.
func newAuthenticateFixture(t *testing.T) *authenticateFixture {
	t.Helper()
	f := &authenticateFixture{
		manager:     &mocks.TokenManager{},
		revocations: &mocks.RevocationStore{},
		users:       &mocks.UserStore{},
		ctxManager:  httpctx.NewManager(),
	}

	authenticate := NewAuthenticate(f.manager, f.revocations, f.users, f.ctxManager, testutil.MakeNoopLogger())

	f.engine = gin.New()
	f.engine.GET("/probe", authenticate.Handle(), func(c *gin.Context) {
		user, ok := f.ctxManager.GetUser(c)
		require.True(t, ok)
		bearer, ok := f.ctxManager.GetBearer(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "bearer": bearer})
	})
	return f
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthenticate_NoCredential(t *testing.T) {
	f := newAuthenticateFixture(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication_required", errorCode(t, rec))
	f.manager.AssertNotCalled(t, "ParseAccessToken", mock.Anything)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	f := newAuthenticateFixture(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication_required", errorCode(t, rec))
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	f := newAuthenticateFixture(t)

	f.manager.On("ParseAccessToken", "expired").Return(uuid.Nil, model.ErrTokenExpired).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer expired")
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session_expired", errorCode(t, rec))
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	f := newAuthenticateFixture(t)

	f.manager.On("ParseAccessToken", "garbage").Return(uuid.Nil, model.ErrTokenInvalid).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	f := newAuthenticateFixture(t)
	userID := uuid.New()

	f.manager.On("ParseAccessToken", "revoked").Return(userID, nil).Once()
	f.revocations.On("IsRevoked", mock.Anything, token.HashToken("revoked"), mock.AnythingOfType("time.Time")).
		Return(true, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	f.engine.ServeHTTP(rec, req)

	// A revoked token answers exactly like an expired one.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session_expired", errorCode(t, rec))
	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	f := newAuthenticateFixture(t)
	userID := uuid.New()

	f.manager.On("ParseAccessToken", "valid").Return(userID, nil).Once()
	f.revocations.On("IsRevoked", mock.Anything, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(false, nil).Once()
	f.users.On("GetByID", mock.Anything, userID).Return(model.User{}, model.ErrNotFound).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer valid")
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication_required", errorCode(t, rec))
}

func TestAuthenticate_Success(t *testing.T) {
	f := newAuthenticateFixture(t)
	user := model.User{ID: uuid.New(), Email: "alice@example.com", Role: model.RoleMember}

	f.manager.On("ParseAccessToken", "valid").Return(user.ID, nil).Once()
	f.revocations.On("IsRevoked", mock.Anything, token.HashToken("valid"), mock.AnythingOfType("time.Time")).
		Return(false, nil).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer valid")
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.ID.String())
	assert.Contains(t, rec.Body.String(), "valid")
}

func TestAuthenticate_CookieFallback(t *testing.T) {
	f := newAuthenticateFixture(t)
	user := model.User{ID: uuid.New(), Role: model.RoleMember}

	f.manager.On("ParseAccessToken", "cookie-token").Return(user.ID, nil).Once()
	f.revocations.On("IsRevoked", mock.Anything, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(false, nil).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: cookie.AccessName, Value: "cookie-token"})
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_HeaderBeatsCookie(t *testing.T) {
	f := newAuthenticateFixture(t)
	user := model.User{ID: uuid.New(), Role: model.RoleMember}

	f.manager.On("ParseAccessToken", "header-token").Return(user.ID, nil).Once()
	f.revocations.On("IsRevoked", mock.Anything, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(false, nil).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: cookie.AccessName, Value: "cookie-token"})
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.manager.AssertNotCalled(t, "ParseAccessToken", "cookie-token")
}
