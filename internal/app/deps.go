package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vidmira/backend/internal/catalog"
	"github.com/vidmira/backend/internal/config"
	"github.com/vidmira/backend/internal/db"
	"github.com/vidmira/backend/internal/handlers"
	"github.com/vidmira/backend/internal/identity"
	"github.com/vidmira/backend/internal/kv"
	"github.com/vidmira/backend/internal/media"
	"github.com/vidmira/backend/internal/middleware"
	"github.com/vidmira/backend/internal/session"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup releases any backing connections.
func buildDependencies(ctx context.Context, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(), error) {
	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	registry := identity.NewRegistry(identity.DemoProviders()...)

	var minter identity.TokenMinter = identity.DemoTokenMinter{}
	if cfg.TokenSecret != "" {
		minter = identity.NewJWTMinter(cfg.TokenSecret)
	}

	sessions := session.NewStore(store, registry, minter)
	sessions.OnChange(func() {
		logger.Info("session changed")
	})

	mediaStore, err := buildMediaStore(ctx, cfg)
	if err != nil {
		cleanup()
		return handlers.Dependencies{}, nil, err
	}

	limiter := middleware.NewIPRateLimiter(cfg.UploadRateLimit, cfg.UploadRateWindow, cfg.UploadRateLimit, 5*time.Minute)

	return handlers.Dependencies{
		Catalog:       catalog.NewStore(store),
		Sessions:      sessions,
		Media:         mediaStore,
		UploadLimiter: limiter,
	}, cleanup, nil
}

// buildStore selects the key-value namespace backend.
func buildStore(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		return kv.NewMemoryStore(), func() {}, nil
	case config.StoreFile:
		store, err := kv.NewFileStore(cfg.StateFile)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewPostgresStore(pool), pool.Close, nil
	case config.StoreRedis:
		store := kv.NewRedisStore(cfg.RedisAddr)
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}

// buildMediaStore picks S3 when a bucket is configured, otherwise the
// in-memory object store used by the demo deployment.
func buildMediaStore(ctx context.Context, cfg config.Config) (media.Store, error) {
	if cfg.ObjectStore.Bucket == "" {
		return media.NewMemoryStore(), nil
	}
	return media.NewS3Store(ctx, cfg.ObjectStore)
}
