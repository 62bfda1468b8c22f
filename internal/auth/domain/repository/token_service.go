package repository

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies session tokens.
type TokenService interface {
	GenerateToken(ctx context.Context, userID, phoneNo string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims carried by a session token. The id/email names match the payload
// existing mobile clients decode.
type Claims struct {
	UserID  string `json:"id"`
	PhoneNo string `json:"email"`
	jwt.RegisteredClaims
}

// TokenID returns the jti, used as the blacklist key.
func (c *Claims) TokenID() string {
	return c.ID
}

// Remaining is how long the token stays valid after now.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
