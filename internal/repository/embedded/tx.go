package embedded

import (
	"context"
	"database/sql"
	"fmt"

	"duper-mart/internal/repository"
)

// sqlTx adapts a database/sql transaction to the store-agnostic Tx handle.
type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

// unwrap returns the database/sql transaction behind a Tx produced by this
// backend's BeginTx.
func unwrap(tx repository.Tx) (*sql.Tx, error) {
	wrapped, ok := tx.(*sqlTx)
	if !ok {
		return nil, fmt.Errorf("transaction does not belong to the embedded store")
	}
	return wrapped.tx, nil
}
