// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/core/chapter"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/core/upload"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/config"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/constants"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	Health HealthHandlers

	// Chapter manages chapter records.
	Chapter *chapter.Handler

	// Upload mediates multipart uploads of chapter audio.
	Upload *upload.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// verifier may be nil, in which case no token is checked and mutating
// routes are open. ctx bounds the rate limiter's cleanup loop.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	limiter := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(limiter.Handler)
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chimw.CleanPath)

	// Tokens are checked on mutating routes only.
	guard := middleware.Passthrough
	if verifier != nil {
		guard = middleware.Protect(verifier)
	}

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	r.Get("/", h.Health.Root)
	r.Get("/health", h.Health.Liveness)
	r.Get("/ready", h.Health.Readiness)

	// # Application API
	h.Chapter.RegisterRoutes(r, guard)
	h.Upload.RegisterRoutes(r, guard)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
