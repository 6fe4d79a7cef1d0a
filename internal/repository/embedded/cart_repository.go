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

// cartRepository implements repository.CartRepository on the embedded store.
type cartRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCartRepository creates an embedded-store cart repository.
func NewCartRepository(db *sql.DB, logger zerolog.Logger) repository.CartRepository {
	return &cartRepository{
		db:     db,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var c model.Cart
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM carts WHERE user_id = ?`, userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &c, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO carts (id, user_id, created_at) VALUES (?, ?, ?)`,
		cart.ID, cart.UserID, cart.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", cart.UserID.String()).Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

func (r *cartRepository) GetLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, cart_id, product_id, quantity FROM cart_lines WHERE cart_id = ?`, cartID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	// Attach product details for display.
	for i := range lines {
		p, err := getProduct(ctx, r.db, lines[i].ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			lines[i].ProductName = p.Name
			lines[i].RetailPrice = p.RetailPrice
		}
	}

	return lines, nil
}

func (r *cartRepository) GetLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*model.CartLine, error) {
	var l model.CartLine
	err := r.db.QueryRowContext(ctx,
		`SELECT id, cart_id, product_id, quantity FROM cart_lines WHERE cart_id = ? AND product_id = ?`,
		cartID, productID,
	).Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart line")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &l, nil
}

func (r *cartRepository) GetLineByID(ctx context.Context, lineID uuid.UUID) (*model.CartLine, error) {
	var l model.CartLine
	err := r.db.QueryRowContext(ctx,
		`SELECT id, cart_id, product_id, quantity FROM cart_lines WHERE id = ?`, lineID,
	).Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to query cart line")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &l, nil
}

func (r *cartRepository) CreateLine(ctx context.Context, line *model.CartLine) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_lines (id, cart_id, product_id, quantity) VALUES (?, ?, ?, ?)`,
		line.ID, line.CartID, line.ProductID, line.Quantity,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", line.CartID.String()).
			Str("product_id", line.ProductID.String()).
			Msg("failed to create cart line")
		return fmt.Errorf("failed to create cart line: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE cart_lines SET quantity = ? WHERE id = ?`, quantity, lineID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to update cart line")
		return fmt.Errorf("failed to update cart line: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE id = ?`, lineID)
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to delete cart line")
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = ?`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteLinesTx(ctx context.Context, tx repository.Tx, cartID uuid.UUID) error {
	stx, err := unwrap(tx)
	if err != nil {
		return err
	}

	_, err = stx.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = ?`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart in transaction")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
