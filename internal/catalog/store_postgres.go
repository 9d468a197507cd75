// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/internal/platform/database/schema"
	"github.com/taibuivan/taaga/internal/platform/dberr"
)

// PostgresStore persists products in the products table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed catalog Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// List returns all products, newest first.
func (store *PostgresStore) List(context context.Context) ([]Product, error) {
	table := schema.Product
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC`,
		strings.Join(table.Columns(), ", "), table.Table, table.CreatedAt,
	)

	rows, err := store.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "product_list")
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var product Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, dberr.Wrap(err, "product_list_scan")
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "product_list_rows")
	}
	return products, nil
}

// FindByID returns the product with the given id, or a not-found error.
func (store *PostgresStore) FindByID(context context.Context, id string) (*Product, error) {
	table := schema.Product
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID,
	)

	var product Product
	if err := scanProduct(store.pool.QueryRow(context, query, id), &product); err != nil {
		wrapped := dberr.Wrap(err, "product_find")
		if apperr.IsNotFound(wrapped) {
			return nil, apperr.NotFound("Product")
		}
		return nil, wrapped
	}
	return &product, nil
}

// Create inserts a new product row. A duplicate slug surfaces as a conflict.
func (store *PostgresStore) Create(context context.Context, product *Product) error {
	table := schema.Product
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		table.Table, strings.Join(table.Columns(), ", "),
	)

	_, err := store.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.ImageURL,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "product_create")
	}
	return nil
}

// Update overwrites the mutable columns of an existing product row.
func (store *PostgresStore) Update(context context.Context, product *Product) error {
	table := schema.Product
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		table.Table,
		table.Name, table.Slug, table.Description, table.Price, table.ImageURL, table.UpdatedAt,
		table.ID,
	)

	tag, err := store.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.ImageURL,
		product.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "product_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

// Delete removes a product row, or returns a not-found error when absent.
func (store *PostgresStore) Delete(context context.Context, id string) error {
	table := schema.Product
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1`,
		table.Table, table.ID,
	)

	tag, err := store.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "product_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

// scanProduct maps one row onto a Product in column order.
func scanProduct(row pgx.Row, product *Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}
