// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the HTTP surface of the Taaga service.

It owns the router, the middleware chain, and the mapping of domain
handlers onto URL space. Domain packages contribute sub-routers; this
package decides where they mount and which cross-cutting middleware wraps
them.

Route map (all business routes under /api):

	GET    /health               liveness probe
	GET    /ready                readiness probe (Postgres + Redis)
	GET    /api/test             connectivity check for storefront smoke tests
	POST   /api/debug            request echo
	POST   /api/auth/*           signup, login, logout, session
	GET    /api/profile/*        contact profiles
	GET    /api/products/*       product catalog
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/taaga/internal/catalog"
	"github.com/taibuivan/taaga/internal/identity"
	"github.com/taibuivan/taaga/internal/platform/config"
	"github.com/taibuivan/taaga/internal/platform/constants"
	"github.com/taibuivan/taaga/internal/platform/middleware"
	"github.com/taibuivan/taaga/internal/profile"
)

// Handlers bundles the domain handlers the server mounts.
type Handlers struct {
	Auth    *identity.Handler
	Profile *profile.Handler
	Catalog *catalog.Handler
	Health  *HealthHandler
}

// NewServer builds the fully wired HTTP server.
//
// The lifecycle context bounds background middleware work (the rate
// limiter's cleanup loop); cancel it on shutdown.
func NewServer(lifecycle context.Context, cfg *config.Config, logger *slog.Logger, verifier middleware.TokenVerifier, handlers Handlers) *http.Server {
	router := NewRouter(lifecycle, cfg, logger, verifier, handlers)

	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadTimeout:       constants.DefaultReadTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
	}
}

// NewRouter assembles the middleware chain and mounts all routes.
//
// Middleware order matters: tracing and logging come first so every later
// stage (including panic recovery output) is correlated; authentication
// runs before any domain router so RequireAuth guards can rely on it.
func NewRouter(lifecycle context.Context, cfg *config.Config, logger *slog.Logger, verifier middleware.TokenVerifier, handlers Handlers) chi.Router {
	router := chi.NewRouter()

	// ── Cross-cutting middleware ──
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.PanicRecovery(logger))
	router.Use(middleware.RateLimit(lifecycle))
	router.Use(middleware.CORS(cfg))
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.Authenticate(verifier))

	// ── Probes (outside /api: consumed by the orchestrator, not the SPA) ──
	router.Get("/health", handlers.Health.Liveness)
	router.Get("/ready", handlers.Health.Readiness)

	// ── Business surface ──
	router.Route("/api", func(api chi.Router) {
		api.Get("/test", TestHandler)
		api.Post("/debug", DebugHandler)

		api.Mount("/auth", handlers.Auth.Routes())
		api.Mount("/profile", handlers.Profile.Routes())
		api.Mount("/products", handlers.Catalog.Routes())
	})

	return router
}
