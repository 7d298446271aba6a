package config

import (
	"strings"
	"time"
)

// UpstreamConfig contains the dealership API client configuration.
type UpstreamConfig struct {
	// BaseURL is the upstream API root, e.g. "http://localhost:8080/carshop/api".
	// Fixed for the process lifetime.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080/carshop/api"`

	// RefreshPath is the token renewal endpoint, relative to BaseURL.
	RefreshPath string `env:"REFRESH_PATH" envDefault:"/auth/refresh"`

	// TokenExpr is the JMESPath expression locating the bearer token inside
	// the renewal response envelope.
	TokenExpr string `env:"TOKEN_EXPR" envDefault:"data.token"`

	// Timeout bounds each upstream dispatch.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to upstream configuration values.
func (u *UpstreamConfig) Sanitize() {
	u.BaseURL = strings.TrimSpace(u.BaseURL)
	if u.Timeout <= 0 {
		u.Timeout = 30 * time.Second
	}
	if u.RefreshPath != "" && !strings.HasPrefix(u.RefreshPath, "/") {
		u.RefreshPath = "/" + u.RefreshPath
	}
}
