// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api runs the Taaga storefront backend.
//
// Startup is strictly ordered: configuration, then infrastructure
// (Postgres, Redis, migrations, signing keys), then domain services, then
// the HTTP server. Any failure before the listener opens aborts the
// process with a non-zero exit.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/taaga/internal/api"
	"github.com/taibuivan/taaga/internal/catalog"
	"github.com/taibuivan/taaga/internal/identity"
	"github.com/taibuivan/taaga/internal/platform/config"
	"github.com/taibuivan/taaga/internal/platform/constants"
	"github.com/taibuivan/taaga/internal/platform/migration"
	"github.com/taibuivan/taaga/internal/platform/postgres"
	"github.com/taibuivan/taaga/internal/platform/redis"
	"github.com/taibuivan/taaga/internal/platform/sec"
	"github.com/taibuivan/taaga/internal/profile"
)

func main() {
	// ── 1. Structured Logger ──────────────────────────────────────────────
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(logger, "load configuration", err)

	if cfg.Debug {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}

	// Lifecycle context: cancelled on SIGINT/SIGTERM, bounds every
	// background goroutine started below.
	lifecycle, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := postgres.NewPool(lifecycle, cfg.DatabaseURL, logger)
	must(logger, "connect to postgres", err)
	defer pool.Close()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	redisClient, err := redis.NewClient(lifecycle, cfg.RedisURL, logger)
	must(logger, "connect to redis", err)
	defer func() { _ = redisClient.Close() }()

	// ── 5. Schema Migrations ──────────────────────────────────────────────
	must(logger, "run migrations", migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger))

	// ── 6. Token Service ──────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(logger, "load signing keys", err)

	// ── 7. Identity Provider & Gateway ────────────────────────────────────
	identityStore := identity.NewPostgresIdentityStore(pool)
	sessionStore := identity.NewRedisSessionStore(redisClient)
	provider := identity.NewLocalProvider(identityStore, sessionStore, tokenService, logger)
	gateway := identity.NewGateway(provider, identityStore, logger)

	// ── 8. Profile Reconciler ─────────────────────────────────────────────
	profileStore := profile.NewPostgresStore(pool)
	reconciler := profile.NewReconciler(profileStore, gateway, logger)

	// ── 9. Catalog ────────────────────────────────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresStore(pool), logger)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Auth:    identity.NewHandler(gateway),
		Profile: profile.NewHandler(reconciler),
		Catalog: catalog.NewHandler(catalogService),
		Health: api.NewHealthHandler(map[string]api.HealthCheck{
			"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, pool) },
			"redis":    func(ctx context.Context) error { return redis.Ping(ctx, redisClient) },
		}),
	}
	server := api.NewServer(lifecycle, cfg, logger, tokenService, handlers)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", server.Addr),
			slog.String("environment", cfg.Environment),
		)
		serverErrors <- server.ListenAndServe()
	}()

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			must(logger, "serve http", err)
		}
	case <-lifecycle.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed, forcing close",
				slog.Any("error", err),
			)
			_ = server.Close()
		}
	}

	logger.Info("server stopped")
}

// must aborts startup on a fatal initialization error.
func must(logger *slog.Logger, step string, err error) {
	if err != nil {
		logger.Error("startup failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
