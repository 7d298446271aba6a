package config

import "time"

// SessionConfig contains browser session configuration.
type SessionConfig struct {
	// CookieName is the browser session id cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"sid"`

	// CookieDomain is the Domain attribute on the session id cookie.
	// Leave empty to scope the cookie to the request host.
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:""`

	// TTL bounds how long an idle browser session (and its stored token)
	// is retained.
	TTL time.Duration `env:"TTL" envDefault:"24h"`

	// StoreBackend selects the token store: "redis" or "memory".
	StoreBackend string `env:"STORE" envDefault:"memory"`

	// KeyPrefix namespaces token keys in the shared store.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"auto88:token:"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.CookieName == "" {
		s.CookieName = "sid"
	}
	if s.TTL <= 0 {
		s.TTL = 24 * time.Hour
	}
	if s.StoreBackend != "redis" {
		s.StoreBackend = "memory"
	}
}
