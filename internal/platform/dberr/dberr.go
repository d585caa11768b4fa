// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies low-level Postgres errors for the repositories.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nthirumalaiah/rb-narrator-book-uploader/internal/platform/apperr"
)

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique violation on the named
// constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// Wrap turns a database failure into a DATABASE_ERROR [apperr.AppError].
// Errors that already are application errors pass through untouched.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Database(fmt.Errorf("postgres: failed to %s: %w", action, err))
}
