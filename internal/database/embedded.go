package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	// Registers the "stoolap" database/sql driver.
	_ "github.com/stoolap/stoolap/pkg/driver"
)

// OpenEmbedded opens the embedded stoolap store. The DSN is either
// "memory://" for a transient in-memory database or "file://<path>" for a
// persistent one.
func OpenEmbedded(ctx context.Context, dsn string, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("dsn", dsn).Msg("opening embedded store")

	db, err := sql.Open("stoolap", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded store: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping embedded store: %w", err)
	}

	logger.Info().Msg("embedded store opened successfully")

	return db, nil
}
