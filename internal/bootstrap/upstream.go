package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/auto88/auto88-ui/config"
	"github.com/auto88/auto88-ui/internal/adapters/memtoken"
	"github.com/auto88/auto88-ui/internal/adapters/redistoken"
	"github.com/auto88/auto88-ui/internal/ports"
	"github.com/auto88/auto88-ui/internal/upstream"
)

// BuildUpstream constructs the shared client pipeline from configuration.
func BuildUpstream(cfg config.UpstreamConfig, logger *slog.Logger) (*upstream.Service, error) {
	svc, err := upstream.NewService(upstream.ServiceOptions{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		RefreshPath: cfg.RefreshPath,
		TokenExpr:   cfg.TokenExpr,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build upstream service: %w", err)
	}
	return svc, nil
}

// BuildTokenStore selects the session token store backend. Redis keeps tokens
// across restarts and between replicas; memory is for development and tests.
//
//nolint:ireturn // the store is consumed through the port.
func BuildTokenStore(cfg config.SessionConfig, redisClient redis.UniversalClient, logger *slog.Logger) (ports.TokenStore, error) {
	switch cfg.StoreBackend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("session store backend %q requires a redis connection", cfg.StoreBackend)
		}
		return redistoken.New(redisClient, cfg.KeyPrefix), nil
	default:
		if logger != nil {
			logger.Info("using in-memory session token store")
		}
		return memtoken.New(), nil
	}
}
