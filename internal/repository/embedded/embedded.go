// Package embedded implements the repository interfaces on top of the
// stoolap embedded SQL engine. It backs local development and hermetic
// tests; the Postgres implementations in the parent package remain the
// production store. Stoolap's MVCC engine detects write conflicts between
// concurrent transactions, which serializes competing stock updates.
package embedded

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// schema is created at startup. UUIDs and decimals travel as TEXT; the
// application owns uniqueness.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT,
		username TEXT,
		role TEXT,
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT,
		name TEXT,
		description TEXT,
		stock INTEGER,
		retail_price TEXT,
		wholesale_price TEXT,
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id TEXT,
		user_id TEXT,
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cart_lines (
		id TEXT,
		cart_id TEXT,
		product_id TEXT,
		quantity INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT,
		user_id TEXT,
		status TEXT,
		date_placed TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id TEXT,
		order_id TEXT,
		product_id TEXT,
		quantity INTEGER,
		purchased_price TEXT,
		wholesale_price TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS watchlist (
		id TEXT,
		user_id TEXT,
		product_id TEXT,
		created_at TIMESTAMP
	)`,
}

// Bootstrap creates the embedded store schema.
func Bootstrap(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Error().Err(err).Msg("failed to create embedded schema")
			return fmt.Errorf("failed to create embedded schema: %w", err)
		}
	}

	logger.Info().Msg("embedded schema ready")
	return nil
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
