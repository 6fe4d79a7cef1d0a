package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// pgTx adapts a pgx transaction to the store-agnostic Tx handle.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// pgxTx unwraps a Tx produced by this backend's BeginTx.
func pgxTx(tx Tx) (pgx.Tx, error) {
	wrapped, ok := tx.(*pgTx)
	if !ok {
		return nil, fmt.Errorf("transaction does not belong to the postgres store")
	}
	return wrapped.tx, nil
}
