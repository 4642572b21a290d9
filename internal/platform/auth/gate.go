// Package auth implements the entry gate: a PIN verification that issues
// short-lived session tokens, and middleware that blocks protected routes
// until one verification has succeeded.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrVerificationFailed is returned for a wrong PIN. The message is the
// user-facing retryable error.
var ErrVerificationFailed = errors.New("authentication failed: please try again")

const subject = "thalos-user"

// Gate verifies a PIN against its bcrypt hash and mints HMAC-signed session
// tokens.
type Gate struct {
	pinHash []byte
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewGate(pinHash string, secret []byte, ttl time.Duration) *Gate {
	return &Gate{
		pinHash: []byte(pinHash),
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
	}
}

// HashPIN produces the bcrypt hash stored in configuration.
func HashPIN(pin string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(h), nil
}

// Verify checks the PIN and returns a signed session token. A failed attempt
// returns ErrVerificationFailed; the caller may retry indefinitely.
func (g *Gate) Verify(pin string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(g.pinHash, []byte(pin)); err != nil {
		return "", ErrVerificationFailed
	}

	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// TTL returns the session lifetime.
func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// ValidateToken checks a session token's signature and expiry.
func (g *Gate) ValidateToken(tokenStr string) error {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid session token")
	}
	return nil
}
