package upstream

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/auto88/auto88-ui/internal/domain/session"
)

// tokenClaims mirrors the payload the upstream issues: registered claims plus
// a role tag.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// DecodeClaims extracts identity claims from a bearer token without verifying
// its signature. The token is opaque credential material as far as this
// client is concerned; expiry is advisory and the server stays authoritative.
func DecodeClaims(token string) (*session.Claims, error) {
	var raw tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &raw); err != nil {
		return nil, fmt.Errorf("decode token claims: %w", err)
	}
	if raw.Subject == "" {
		return nil, fmt.Errorf("token carries no subject claim")
	}

	var expiresAt time.Time
	if raw.ExpiresAt != nil {
		expiresAt = raw.ExpiresAt.Time
	}
	return &session.Claims{
		Subject:   raw.Subject,
		Role:      session.ParseRole(raw.Role),
		ExpiresAt: expiresAt,
	}, nil
}
