// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/constants"
	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/respond"
)

// HealthCheck probes one dependency. It must honour ctx's deadline.
type HealthCheck func(ctx context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase HealthCheck

	// CheckCache pings the Redis client backing the upload ledger.
	CheckCache HealthCheck

	// CheckStorage issues a HeadBucket against the upload bucket.
	CheckStorage HealthCheck
}

// HealthHandlers are the unauthenticated probe endpoints.
type HealthHandlers struct {
	Root      http.HandlerFunc
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc
}

type healthHandler struct {
	dependencies HealthDependencies
	environment  string
	logger       *slog.Logger
}

// NewHealthHandlers creates the /, /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, environment string, logger *slog.Logger) HealthHandlers {
	handler := &healthHandler{dependencies: deps, environment: environment, logger: logger}
	return HealthHandlers{
		Root:      handler.root,
		Liveness:  handler.liveness,
		Readiness: handler.readiness,
	}
}

// root handles GET /.
func (handler *healthHandler) root(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldMessage: "Narrator Book Uploader API",
		constants.FieldStatus:  "healthy",
		constants.FieldVersion: constants.AppVersion,
	})
}

// liveness handles GET /health (Liveness probe). It never touches a dependency.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:      "healthy",
		constants.FieldService:     constants.AppName,
		constants.FieldVersion:     constants.AppVersion,
		constants.FieldEnvironment: handler.environment,
	})
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		check HealthCheck
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
		{"s3", handler.dependencies.CheckStorage},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}
		result := checkResult{Name: dependency.name, IsOK: true}
		if err := handler.probe(request.Context(), dependency.check); err != nil {
			result.IsOK = false
			// Probe errors can name hosts and buckets; the log keeps the detail.
			result.Error = "unavailable"
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", dependency.name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		constants.FieldStatus: responseStatus,
		constants.FieldChecks: results,
	})
}

func (handler *healthHandler) probe(ctx context.Context, check HealthCheck) error {
	probeCtx, cancel := context.WithTimeout(ctx, constants.HealthCheckTimeout)
	defer cancel()
	return check(probeCtx)
}
