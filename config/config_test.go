package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected default HTTP addr :8080, got %q", cfg.HTTP.Addr)
	}
	if cfg.Upstream.BaseURL == "" {
		t.Error("expected a default upstream base URL")
	}
	if cfg.Upstream.RefreshPath != "/auth/refresh" {
		t.Errorf("expected default refresh path /auth/refresh, got %q", cfg.Upstream.RefreshPath)
	}
	if cfg.Upstream.TokenExpr != "data.token" {
		t.Errorf("expected default token expression data.token, got %q", cfg.Upstream.TokenExpr)
	}
	if cfg.Session.CookieName != "sid" {
		t.Errorf("expected default session cookie sid, got %q", cfg.Session.CookieName)
	}
	if cfg.Session.StoreBackend != "memory" {
		t.Errorf("expected default session store memory, got %q", cfg.Session.StoreBackend)
	}
}

func TestAppConfigFromEnv(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", " http://api.auto88.test/carshop/api ")
	t.Setenv("UPSTREAM_REFRESH_PATH", "auth/renew")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SESSION_COOKIE_DOMAIN", "shop.auto88.test")
	t.Setenv("REDIS_URI", "redis://cache.auto88.test:6380")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Upstream.BaseURL != "http://api.auto88.test/carshop/api" {
		t.Errorf("expected trimmed base URL, got %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.RefreshPath != "/auth/renew" {
		t.Errorf("expected leading slash on refresh path, got %q", cfg.Upstream.RefreshPath)
	}
	if cfg.Session.StoreBackend != "redis" {
		t.Errorf("expected redis session store, got %q", cfg.Session.StoreBackend)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("expected 1h session TTL, got %v", cfg.Session.TTL)
	}
	if cfg.Session.CookieDomain != "shop.auto88.test" {
		t.Errorf("unexpected session cookie domain %q", cfg.Session.CookieDomain)
	}
	if cfg.Redis.URI != "redis://cache.auto88.test:6380" {
		t.Errorf("unexpected redis URI %q", cfg.Redis.URI)
	}
}

func TestSanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{
		HTTP:     HTTPConfig{CompressionLevel: 42},
		Upstream: UpstreamConfig{Timeout: -time.Second},
		Session:  SessionConfig{StoreBackend: "etcd", TTL: -1},
	}
	cfg.Sanitize()

	if cfg.HTTP.CompressionLevel != 9 {
		t.Errorf("expected compression level clamped to 9, got %d", cfg.HTTP.CompressionLevel)
	}
	if cfg.Upstream.Timeout != 30*time.Second {
		t.Errorf("expected timeout fallback 30s, got %v", cfg.Upstream.Timeout)
	}
	if cfg.Session.StoreBackend != "memory" {
		t.Errorf("unknown store backends fall back to memory, got %q", cfg.Session.StoreBackend)
	}
	if cfg.Session.TTL <= 0 {
		t.Errorf("expected positive TTL fallback, got %v", cfg.Session.TTL)
	}
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	var cfg AppConfig
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Error("NODE_ENV=development should enable dev mode")
	}
}
