package embedded

import (
	"context"
	"database/sql"
	"fmt"

	"duper-mart/internal/model"
	"duper-mart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type watchlistRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewWatchlistRepository creates an embedded-store watchlist repository.
func NewWatchlistRepository(db *sql.DB, logger zerolog.Logger) repository.WatchlistRepository {
	return &watchlistRepository{
		db:     db,
		logger: logger.With().Str("repository", "watchlist").Logger(),
	}
}

func (r *watchlistRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, product_id, created_at FROM watchlist WHERE user_id = ? ORDER BY created_at`,
		userID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query watchlist")
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []model.WatchlistEntry
	for rows.Next() {
		var e model.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}

	cache := make(map[uuid.UUID]string)
	for i := range entries {
		name, err := productName(ctx, r.db, cache, entries[i].ProductID)
		if err != nil {
			return nil, err
		}
		entries[i].ProductName = name
	}

	return entries, nil
}

func (r *watchlistRepository) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.WatchlistEntry, error) {
	var e model.WatchlistEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, product_id, created_at FROM watchlist WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	).Scan(&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to query watchlist entry")
		return nil, fmt.Errorf("failed to query watchlist entry: %w", err)
	}
	return &e, nil
}

func (r *watchlistRepository) Add(ctx context.Context, entry *model.WatchlistEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO watchlist (id, user_id, product_id, created_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.ProductID, entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", entry.UserID.String()).
			Str("product_id", entry.ProductID.String()).
			Msg("failed to add watchlist entry")
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to remove watchlist entry")
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return nil
}
