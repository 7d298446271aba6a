// Package session contains domain-level types for the upstream-facing user
// session. It is pure and free of transport/adapter concerns.
package session

import (
	"strings"
	"time"
)

// Role represents the authorization role carried in the upstream bearer token.
// Keep string form for easy persistence and logging.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole normalizes an upstream role tag. Unknown tags map to RoleUser so
// a malformed claim never grants elevated access.
func ParseRole(raw string) Role {
	if strings.EqualFold(raw, string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Claims is the identity decoded from the bearer token. Expiry is advisory
// only; the upstream server remains authoritative.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the claims are past their advisory expiry at the
// given instant. Zero expiry is treated as non-expiring.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Profile is the enriched identity fetched from the upstream user endpoint.
// All fields are optional; a session stays valid with only token-derived
// claims when enrichment fails.
type Profile struct {
	UserID    string `json:"userId"`
	AccountID string `json:"accountId"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	AvatarURL string `json:"avatarUrl"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

// Snapshot is an immutable view of the session published to subscribers.
type Snapshot struct {
	Token   string
	Claims  *Claims
	Profile *Profile
}

// Authenticated reports whether the snapshot carries a bearer token.
func (s Snapshot) Authenticated() bool { return s.Token != "" }

// IsAdmin reports whether the decoded role tag is the admin role.
func (s Snapshot) IsAdmin() bool {
	return s.Claims != nil && s.Claims.Role == RoleAdmin
}

// DisplayName returns the friendliest available name for the session.
func (s Snapshot) DisplayName() string {
	if s.Profile != nil && s.Profile.FullName != "" {
		return s.Profile.FullName
	}
	if s.Claims != nil {
		return s.Claims.Subject
	}
	return ""
}
