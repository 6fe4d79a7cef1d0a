package repository

import (
	"context"
	"fmt"

	"duper-mart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// watchlistRepository implements the WatchlistRepository interface using PostgreSQL.
type watchlistRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWatchlistRepository creates a new PostgreSQL-backed watchlist repository.
func NewWatchlistRepository(pool *pgxpool.Pool, logger zerolog.Logger) WatchlistRepository {
	return &watchlistRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "watchlist").Logger(),
	}
}

// GetByUser retrieves a user's watchlist entries with product names.
func (r *watchlistRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error) {
	query := `
		SELECT w.id, w.user_id, w.product_id, w.created_at, p.name
		FROM watchlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query watchlist")
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []model.WatchlistEntry
	for rows.Next() {
		var e model.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt, &e.ProductName); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist entries: %w", err)
	}

	return entries, nil
}

// GetByUserAndProduct retrieves a single entry.
func (r *watchlistRepository) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.WatchlistEntry, error) {
	query := `
		SELECT id, user_id, product_id, created_at
		FROM watchlist
		WHERE user_id = $1 AND product_id = $2
	`

	var e model.WatchlistEntry
	err := r.pool.QueryRow(ctx, query, userID, productID).Scan(&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query watchlist entry")
		return nil, fmt.Errorf("failed to query watchlist entry: %w", err)
	}

	return &e, nil
}

// Add inserts a new entry.
func (r *watchlistRepository) Add(ctx context.Context, entry *model.WatchlistEntry) error {
	query := `
		INSERT INTO watchlist (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, entry.ID, entry.UserID, entry.ProductID, entry.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", entry.UserID.String()).
			Str("product_id", entry.ProductID.String()).
			Msg("failed to add watchlist entry")
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}

	return nil
}

// Remove deletes the entry for a user/product pair.
func (r *watchlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM watchlist WHERE user_id = $1 AND product_id = $2`,
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
