// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/internal/platform/database/schema"
	"github.com/taibuivan/taaga/internal/platform/dberr"
)

// PostgresIdentityStore persists identities in the identities table.
type PostgresIdentityStore struct {
	pool *pgxpool.Pool
}

// NewPostgresIdentityStore creates a Postgres-backed IdentityStore.
func NewPostgresIdentityStore(pool *pgxpool.Pool) *PostgresIdentityStore {
	return &PostgresIdentityStore{pool: pool}
}

// Create inserts a new identity row.
// A duplicate email surfaces as a conflict error via the unique index.
func (store *PostgresIdentityStore) Create(context context.Context, identity *Identity) error {
	table := schema.Identity
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		table.Table, strings.Join(table.Columns(), ", "),
	)

	_, err := store.pool.Exec(context, query,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.Metadata,
		identity.IsConfirmed,
		identity.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "identity_create")
	}
	return nil
}

// FindByEmail returns the identity registered under email.
func (store *PostgresIdentityStore) FindByEmail(context context.Context, email string) (*Identity, error) {
	table := schema.Identity
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.Email,
	)

	return store.scanOne(context, query, email)
}

// FindByID returns the identity with the given id.
func (store *PostgresIdentityStore) FindByID(context context.Context, id string) (*Identity, error) {
	table := schema.Identity
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID,
	)

	return store.scanOne(context, query, id)
}

// scanOne runs a single-row identity query and maps storage errors.
func (store *PostgresIdentityStore) scanOne(context context.Context, query string, args ...any) (*Identity, error) {
	var identity Identity
	err := store.pool.QueryRow(context, query, args...).Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Metadata,
		&identity.IsConfirmed,
		&identity.CreatedAt,
	)
	if err != nil {
		wrapped := dberr.Wrap(err, "identity_find")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Identity")
		}
		return nil, wrapped
	}
	return &identity, nil
}
