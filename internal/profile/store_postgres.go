// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/internal/platform/database/schema"
	"github.com/taibuivan/taaga/internal/platform/dberr"
)

// PostgresStore persists profiles in the profiles table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed profile Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// columnFor maps an updatable field identifier to its column name.
// Only whitelisted fields ever reach a SET clause.
func columnFor(field string) (string, bool) {
	table := schema.Profile
	switch field {
	case FieldFullName:
		return table.FullName, true
	case FieldPhone:
		return table.Phone, true
	case FieldAddress:
		return table.Address, true
	}
	return "", false
}

// FindByID returns the profile with the given id, or a not-found error.
func (store *PostgresStore) FindByID(context context.Context, id string) (*Profile, error) {
	table := schema.Profile
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID,
	)

	profile, err := store.scanRow(store.pool.QueryRow(context, query, id))
	if err != nil {
		wrapped := dberr.Wrap(err, "profile_find")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Profile")
		}
		return nil, wrapped
	}
	return profile, nil
}

// Insert creates a new profile row. The primary key doubles as the race
// guard: a duplicate insert surfaces as a conflict error.
func (store *PostgresStore) Insert(context context.Context, profile *Profile) error {
	table := schema.Profile
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		table.Table, strings.Join(table.Columns(), ", "),
	)

	_, err := store.pool.Exec(context, query,
		profile.ID,
		profile.FullName,
		profile.Phone,
		profile.Address,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "profile_insert")
	}
	return nil
}

/*
UpdateFields writes only the supplied columns and returns the updated row.

The SET clause is assembled from the whitelist in [UpdatableFields] order so
the statement text is deterministic. Unknown keys are skipped here as a
second line of defense; the service layer has already rejected them.
*/
func (store *PostgresStore) UpdateFields(context context.Context, id string, fields map[string]string) (*Profile, error) {
	table := schema.Profile

	assignments := make([]string, 0, len(fields)+1)
	arguments := make([]any, 0, len(fields)+2)
	arguments = append(arguments, id)

	for _, field := range UpdatableFields {
		value, supplied := fields[field]
		if !supplied {
			continue
		}
		column, allowed := columnFor(field)
		if !allowed {
			continue
		}
		arguments = append(arguments, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(arguments)))
	}
	if len(assignments) == 0 {
		return nil, apperr.ValidationError("No updatable fields supplied")
	}

	arguments = append(arguments, time.Now())
	assignments = append(assignments, fmt.Sprintf("%s = $%d", table.UpdatedAt, len(arguments)))

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE %s = $1
		RETURNING %s`,
		table.Table, strings.Join(assignments, ", "), table.ID, strings.Join(table.Columns(), ", "),
	)

	profile, err := store.scanRow(store.pool.QueryRow(context, query, arguments...))
	if err != nil {
		wrapped := dberr.Wrap(err, "profile_update")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Profile")
		}
		return nil, wrapped
	}
	return profile, nil
}

// rowScanner matches pgx.Row for single-row scans.
type rowScanner interface {
	Scan(destinations ...any) error
}

func (store *PostgresStore) scanRow(row rowScanner) (*Profile, error) {
	var profile Profile
	err := row.Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Phone,
		&profile.Address,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
