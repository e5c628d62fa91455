package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dchaban/taskdeck-server/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT claims with token type and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC. Access and
// refresh tokens are signed with distinct secrets.
type JWT struct {
	accessSecret  string
	refreshSecret string
}

// NewJWT creates a JWT token manager. Both secrets are mandatory and
// must differ; a shared secret would defeat the key-separation design.
func NewJWT(accessSecret, refreshSecret string) (*JWT, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("jwt secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return &JWT{accessSecret: accessSecret, refreshSecret: refreshSecret}, nil
}

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 30 * 24 * time.Hour

	typeAccess  = "access"
	typeRefresh = "refresh"
)

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return j.generate(userID, typeAccess, AccessTTL, j.accessSecret)
}

// GenerateRefreshToken creates a long-lived refresh token.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return j.generate(userID, typeRefresh, RefreshTTL, j.refreshSecret)
}

func (j *JWT) generate(userID uuid.UUID, tokenType string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		TokenType: tokenType,
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

// ParseAccessToken validates an access token and extracts the user ID.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims, err := j.parse(tokenString, typeAccess, j.accessSecret)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// ParseRefreshToken validates a refresh token and extracts the user ID.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, error) {
	claims, err := j.parse(tokenString, typeRefresh, j.refreshSecret)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// AccessTokenExpiry returns the exp claim of a valid access token.
func (j *JWT) AccessTokenExpiry(tokenString string) (time.Time, error) {
	claims, err := j.parse(tokenString, typeAccess, j.accessSecret)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, model.ErrTokenInvalid
	}
	return claims.ExpiresAt.Time, nil
}

// parse validates signature, expiry and token type. Expiry of a
// correctly signed token surfaces as model.ErrTokenExpired; every other
// failure collapses into model.ErrTokenInvalid.
func (j *JWT) parse(tokenString, wantType, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}
	if !token.Valid || claims.TokenType != wantType {
		return nil, model.ErrTokenInvalid
	}
	return claims, nil
}
