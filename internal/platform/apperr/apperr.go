// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error taxonomy of the narrator API.

Every failure that leaves a service is an [AppError]. The kind of failure is carried
by the Type field and decides the HTTP status:

  - validation_error: malformed or out-of-range input (400).
  - business_rule_error: well-formed input that violates a domain rule (400).
  - not_found_error: the addressed record does not exist (404).
  - upload_provider_error: the object store refused or failed an operation (409 / 500).
  - database_error: the relational store failed (500).
  - internal_error: anything else (500).

Server-side causes are kept in Cause for logging and never reach the client.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types exposed in the response body.
const (
	TypeValidation     = "validation_error"
	TypeBusinessRule   = "business_rule_error"
	TypeNotFound       = "not_found_error"
	TypeUploadProvider = "upload_provider_error"
	TypeDatabase       = "database_error"
	TypeAuth           = "auth_error"
	TypeRateLimit      = "rate_limit_error"
	TypeInternal       = "internal_error"
)

// AppError is the canonical error type for the narrator API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL or S3 messages).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "DUPLICATE_SEQUENCE").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// Type is the error family (see the Type* constants).
	Type string `json:"type"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		Type:       TypeValidation,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// BusinessRule creates a 400 [AppError] for input that is well-formed but
// breaks a domain rule, such as a duplicate chapter sequence.
//
// Example:
//
//	apperr.BusinessRule("DUPLICATE_SEQUENCE", "Sequence 3 already exists for book 7")
func BusinessRule(code, msg string) *AppError {
	if code == "" {
		code = "BUSINESS_RULE_VIOLATION"
	}
	return &AppError{
		Code:       code,
		Message:    msg,
		Type:       TypeBusinessRule,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Chapter") // Returns "Chapter not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		Type:       TypeNotFound,
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		Type:       TypeAuth,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		Type:       TypeRateLimit,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// UploadSessionClosed creates a 409 [AppError] for an upload session that the
// object store (or the local ledger) reports as already completed or aborted.
func UploadSessionClosed(uploadID string, cause error) *AppError {
	return &AppError{
		Code:       "UPLOAD_SESSION_CLOSED",
		Message:    fmt.Sprintf("Upload %s is no longer active", uploadID),
		Type:       TypeUploadProvider,
		HTTPStatus: http.StatusConflict,
		Cause:      cause,
	}
}

// # Server Errors (5xx)

// UploadProvider creates a 500 [AppError] for a failed object store call.
func UploadProvider(cause error) *AppError {
	return &AppError{
		Code:       "UPLOAD_PROVIDER_ERROR",
		Message:    "An internal storage error occurred",
		Type:       TypeUploadProvider,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Database creates a 500 [AppError] for a failed relational store call.
func Database(cause error) *AppError {
	return &AppError{
		Code:       "DATABASE_ERROR",
		Message:    "An internal database error occurred",
		Type:       TypeDatabase,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		Type:       TypeInternal,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsType reports whether err carries an [*AppError] of the given type.
func IsType(err error, errType string) bool {
	ae := As(err)
	return ae != nil && ae.Type == errType
}
