// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values shared across layers.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Upload Limits: Multipart protocol bounds enforced before any storage call.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "rb-narrator-api"
	AppVersion = "1.0.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout covers the slowest storage round trip plus encoding.
	DefaultWriteTimeout = 35 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// HealthCheckTimeout bounds each dependency probe of the readiness endpoint.
	HealthCheckTimeout = 2 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Upload Limits

const (
	MinPartNumber = 1
	MaxPartNumber = 10000

	DefaultPresignExpiry = 3600
	MinPresignExpiry     = 60
	MaxPresignExpiry     = 604800

	MaxFilenameLength = 255

	// UploadKeyPrefix is the object key prefix for every staged upload.
	UploadKeyPrefix = "uploads/"

	// DefaultContentType is used when an initiation omits content_type.
	DefaultContentType = "audio/mpeg"

	// UploadSessionTTL is how long the ledger remembers a session. It matches
	// the longest presign expiry so a live URL never outlives its session record.
	UploadSessionTTL = 7 * 24 * time.Hour
)

// # Chapter Limits

const (
	MinTitleLength   = 3
	MaxTitleLength   = 200
	MaxFileURLLength = 2048

	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderTotalCount    = "X-Total-Count"
)

// # JSON Field Identifiers

const (
	FieldStatus      = "status"
	FieldMessage     = "message"
	FieldService     = "service"
	FieldVersion     = "version"
	FieldEnvironment = "environment"
	FieldChecks      = "checks"
)

// # Redis Prefixes

const (
	RedisPrefixUploadSession = "upload:session:"
)
