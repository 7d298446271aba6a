package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	auto88 "github.com/auto88/auto88-ui"
	"github.com/auto88/auto88-ui/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting auto88 storefront",
		"addr", cfg.HTTP.Addr,
		"upstream", cfg.Upstream.BaseURL,
		"session_store", cfg.Session.StoreBackend,
		"dev", cfg.IsDev)

	var redisClient redis.UniversalClient
	if cfg.Session.StoreBackend == "redis" {
		redisClient, err = bootstrap.ConnectRedis(cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	svc, err := bootstrap.BuildUpstream(cfg.Upstream, logger)
	if err != nil {
		return err
	}

	store, err := bootstrap.BuildTokenStore(cfg.Session, redisClient, logger)
	if err != nil {
		return err
	}

	templateFS, staticFS, err := assetFS(cfg.IsDev)
	if err != nil {
		return err
	}

	server, err := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:     &cfg,
		Upstream:   svc,
		TokenStore: store,
		TemplateFS: templateFS,
		StaticFS:   staticFS,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	return bootstrap.ShutdownHTTPServer(ctx, server, logger)
}

// assetFS picks disk assets in dev mode for hot reloading, embedded assets
// otherwise.
func assetFS(dev bool) (fs.FS, fs.FS, error) {
	if dev {
		return os.DirFS("frontend/templates"), os.DirFS("frontend/static"), nil
	}
	templateFS, err := fs.Sub(auto88.TemplateFS, "frontend/templates")
	if err != nil {
		return nil, nil, fmt.Errorf("embedded templates: %w", err)
	}
	staticFS, err := fs.Sub(auto88.StaticFS, "frontend/static")
	if err != nil {
		return nil, nil, fmt.Errorf("embedded static assets: %w", err)
	}
	return templateFS, staticFS, nil
}
