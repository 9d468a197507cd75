// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// The reconciler's get-or-create path depends on this package telling apart
// three outcomes of a failed statement:
//
//   - pgx.ErrNoRows          → NOT_FOUND (row genuinely absent)
//   - SQLSTATE 23505         → CONFLICT (lost a create race or duplicate key)
//   - anything else          → STORE_UNAVAILABLE (transport/infra failure, retryable)
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/taaga/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action tag is embedded in the wrapped cause for server-side logs only.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	// 2. Unique-constraint violations become Conflicts. The store's PK/unique
	// index is the source of truth for get-or-create; callers catch this and
	// retry as a read.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		conflict := apperr.Conflict("Resource already exists")
		conflict.Cause = fmt.Errorf("%s: %w", action, err)
		return conflict
	}

	// 3. Everything else is an infrastructure failure — safe to retry.
	return apperr.StoreUnavailable(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a raw Postgres unique-constraint
// violation (SQLSTATE 23505), before or after wrapping.
func IsUniqueViolation(err error) bool {
	if apperr.IsConflict(err) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
