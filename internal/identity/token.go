package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vidmira/backend/internal/models"
)

// TokenMinter issues the session token stored alongside the identity. The
// token is only ever presence-checked, never validated, so any opaque string
// works.
type TokenMinter interface {
	Mint(identity models.Identity, now time.Time) (string, error)
}

// DemoTokenMinter derives an opaque token from the clock, matching the demo
// login flow.
type DemoTokenMinter struct{}

// Mint returns a timestamp-derived token.
func (DemoTokenMinter) Mint(_ models.Identity, now time.Time) (string, error) {
	return fmt.Sprintf("demo_token_%d", now.UnixMilli()), nil
}

// JWTTokenTTL is how long signed session tokens remain valid.
const JWTTokenTTL = 30 * 24 * time.Hour

// JWTMinter signs HS256 tokens carrying the identity claims. Used when a
// signing secret is configured; the session store still treats the result as
// an opaque presence marker.
type JWTMinter struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTMinter constructs a minter signing with the provided secret.
func NewJWTMinter(secret string) *JWTMinter {
	return &JWTMinter{secret: []byte(secret), ttl: JWTTokenTTL}
}

// Mint signs a token with the identity's id and email.
func (m *JWTMinter) Mint(identity models.Identity, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": identity.ID,
		"email":   identity.Email,
		"exp":     jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

var (
	_ TokenMinter = DemoTokenMinter{}
	_ TokenMinter = (*JWTMinter)(nil)
)
