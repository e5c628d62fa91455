package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// SecretTTL is the validity window for ephemeral action secrets
// (email verification, password reset).
const SecretTTL = 20 * time.Minute

// secretEntropy is the raw secret size in bytes (256 bits).
const secretEntropy = 32

// SecretMinter mints one-time action secrets. The raw form goes to the
// user (emailed); only the peppered SHA-256 digest is persisted, so a
// leaked database does not expose redeemable secrets.
type SecretMinter struct {
	pepper string
	ttl    time.Duration
}

// NewSecretMinter creates a minter. The pepper is mandatory: without it
// the stored hash would be a plain digest of random-looking bytes and
// offer no protection against a database-only leak.
func NewSecretMinter(pepper string) (*SecretMinter, error) {
	if pepper == "" {
		return nil, errors.New("secret pepper must not be empty")
	}
	return &SecretMinter{pepper: pepper, ttl: SecretTTL}, nil
}

// Mint returns a fresh raw secret, its storable hash and the expiry.
func (m *SecretMinter) Mint() (string, string, time.Time, error) {
	buf := make([]byte, secretEntropy)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to read random bytes: %w", err)
	}

	raw := base64.RawURLEncoding.EncodeToString(buf)
	return raw, m.Hash(raw), time.Now().Add(m.ttl), nil
}

// Hash computes the peppered digest of a presented raw secret.
// Verification is hash-and-compare against the stored value.
func (m *SecretMinter) Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw + m.pepper))
	return hex.EncodeToString(sum[:])
}

// HashToken computes the unpeppered SHA-256 digest of a token string.
// The revocation registry keys deny-list rows by this hash so raw
// access tokens never land in the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
