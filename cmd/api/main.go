// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the narrator book uploader HTTP API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Connect to Redis (upload session ledger).
//  6. Build the S3 client.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/api"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/core/chapter"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/core/upload"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/config"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/constants"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/middleware"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/migration"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/objectstore"
	pgstore "github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/postgres"
	redisstore "github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/redis"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo, false)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug || cfg.IsDevelopment() {
		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		log = newLogger(level, cfg.IsDevelopment())
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.ServerPort),
		slog.String("bucket", cfg.S3Bucket),
		slog.Bool("auth_enabled", cfg.AuthEnabled()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	dsn := cfg.DatabaseDSN()
	pool, err := pgstore.NewPool(startupCtx, pgstore.Options{
		DSN:              dsn,
		MaxConns:         cfg.DBMaxConns,
		StatementTimeout: cfg.DBStatementTimeout,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(dsn, cfg.MigrationPath, log), "run migrations")

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Object Storage ─────────────────────────────────────────────────
	s3Client, err := objectstore.NewS3Client(startupCtx, objectstore.Options{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
		Timeout:         cfg.StorageTimeout,
	}, log)
	must(log, err, "configure s3 client")

	// ── 7. Authentication ─────────────────────────────────────────────────
	// A nil interface keeps mutating routes open.
	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled() {
		jwtVerifier, err := sec.NewVerifier(cfg.JWTPublicKeyPath, cfg.JWTIssuer)
		must(log, err, "initialize jwt verifier")
		verifier = jwtVerifier
	} else if cfg.IsProduction() {
		log.Warn("auth_disabled_in_production")
	}

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	health := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
		CheckStorage: func(ctx context.Context) error {
			return objectstore.Ping(ctx, s3Client, cfg.S3Bucket)
		},
	}, cfg.Environment, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	chapterRepository := chapter.NewRepository(pool)
	chapterService := chapter.NewService(chapterRepository, log)

	uploadProvider := upload.NewS3Provider(s3Client, cfg.S3Bucket, log)
	uploadLedger := upload.NewRedisSessionLedger(rdb)
	uploadService := upload.NewService(uploadProvider, uploadLedger, log)

	handlers := api.Handlers{
		Health:  health,
		Chapter: chapter.NewHandler(chapterService),
		Upload:  upload.NewHandler(uploadService),
	}

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the process logger. Development gets text output.
func newLogger(level slog.Level, text bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, options)
	if text {
		handler = slog.NewTextHandler(os.Stdout, options)
	}

	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
