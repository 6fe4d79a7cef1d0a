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

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByUser retrieves a user's cart.
func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, created_at
		FROM carts
		WHERE user_id = $1
	`

	var c model.Cart
	err := r.pool.QueryRow(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &c, nil
}

// Create inserts a new cart.
func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, cart.ID, cart.UserID, cart.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", cart.UserID.String()).Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

// GetLines retrieves all lines of a cart with product details attached.
func (r *cartRepository) GetLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT cl.id, cl.cart_id, cl.product_id, cl.quantity, p.name, p.retail_price
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1
		ORDER BY cl.id
	`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		err := rows.Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.ProductName, &l.RetailPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// GetLineByProduct retrieves the cart line for a product.
func (r *cartRepository) GetLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*model.CartLine, error) {
	query := `
		SELECT id, cart_id, product_id, quantity
		FROM cart_lines
		WHERE cart_id = $1 AND product_id = $2
	`

	var l model.CartLine
	err := r.pool.QueryRow(ctx, query, cartID, productID).Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart line")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &l, nil
}

// GetLineByID retrieves a cart line by its ID.
func (r *cartRepository) GetLineByID(ctx context.Context, lineID uuid.UUID) (*model.CartLine, error) {
	query := `
		SELECT id, cart_id, product_id, quantity
		FROM cart_lines
		WHERE id = $1
	`

	var l model.CartLine
	err := r.pool.QueryRow(ctx, query, lineID).Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to query cart line")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &l, nil
}

// CreateLine inserts a new cart line.
func (r *cartRepository) CreateLine(ctx context.Context, line *model.CartLine) error {
	query := `
		INSERT INTO cart_lines (id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, line.ID, line.CartID, line.ProductID, line.Quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", line.CartID.String()).
			Str("product_id", line.ProductID.String()).
			Msg("failed to create cart line")
		return fmt.Errorf("failed to create cart line: %w", err)
	}

	return nil
}

// UpdateLineQuantity sets a cart line's quantity.
func (r *cartRepository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_lines
		SET quantity = $2
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, lineID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to update cart line")
		return fmt.Errorf("failed to update cart line: %w", err)
	}

	return nil
}

// DeleteLine removes a single cart line.
func (r *cartRepository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, lineID)
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to delete cart line")
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	return nil
}

// DeleteLines removes all lines of a cart.
func (r *cartRepository) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// DeleteLinesTx removes all lines of a cart within the transaction.
func (r *cartRepository) DeleteLinesTx(ctx context.Context, tx Tx, cartID uuid.UUID) error {
	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	_, err = ptx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart in transaction")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
