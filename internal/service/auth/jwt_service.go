// Package auth implements the bearer-token gate in front of the task API.
// Tokens are HS256-signed JWTs; the gate checks signature, type and expiry
// and treats the subject as an opaque caller name.
package auth

import (
	"context"
	"time"
)

// TokenTypeAccess is the only token type the gate accepts.
const TokenTypeAccess = "access"

// JWTService issues and validates access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for subject.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken checks tokenString and returns its claims.
	// Errors are one of ErrInvalidToken, ErrExpiredToken, ErrTokenNotYetValid
	// or ErrWrongTokenType.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	Subject   string    `json:"sub,omitempty"`
	TokenType string    `json:"type,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
