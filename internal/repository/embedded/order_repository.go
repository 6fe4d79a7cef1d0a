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

// orderRepository implements repository.OrderRepository on the embedded store.
type orderRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewOrderRepository creates an embedded-store order repository.
func NewOrderRepository(db *sql.DB, logger zerolog.Logger) repository.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func (r *orderRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTx{tx: tx}, nil
}

func (r *orderRepository) Create(ctx context.Context, tx repository.Tx, order *model.Order) error {
	stx, err := unwrap(tx)
	if err != nil {
		return err
	}

	_, err = stx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, status, date_placed) VALUES (?, ?, ?, ?)`,
		order.ID, order.UserID, order.Status, order.DatePlaced,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) CreateLines(ctx context.Context, tx repository.Tx, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	stx, err := unwrap(tx)
	if err != nil {
		return err
	}

	for _, line := range lines {
		_, err := stx.ExecContext(ctx,
			`INSERT INTO order_lines (id, order_id, product_id, quantity, purchased_price, wholesale_price)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			line.ID, line.OrderID, line.ProductID, line.Quantity, line.PurchasedPrice, line.WholesalePrice,
		)
		if err != nil {
			r.logger.Error().Err(err).
				Str("order_id", line.OrderID.String()).
				Str("product_id", line.ProductID.String()).
				Msg("failed to create order line")
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderLine, error) {
	return r.getOrder(ctx, r.db, id)
}

func (r *orderRepository) GetByIDForUpdate(ctx context.Context, tx repository.Tx, id uuid.UUID) (*model.Order, []model.OrderLine, error) {
	stx, err := unwrap(tx)
	if err != nil {
		return nil, nil, err
	}
	return r.getOrder(ctx, stx, id)
}

func (r *orderRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, status, date_placed FROM orders WHERE user_id = ? ORDER BY date_placed DESC`,
		userID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query orders by user")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return r.collectDetails(ctx, rows)
}

func (r *orderRepository) GetAll(ctx context.Context) ([]model.OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, status, date_placed FROM orders ORDER BY date_placed DESC`,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query all orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return r.collectDetails(ctx, rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, tx repository.Tx, id uuid.UUID, status string) error {
	stx, err := unwrap(tx)
	if err != nil {
		return err
	}

	res, err := stx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("status", status).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if affected == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) getOrder(ctx context.Context, q querier, id uuid.UUID) (*model.Order, []model.OrderLine, error) {
	var order model.Order
	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, status, date_placed FROM orders WHERE id = ?`, id,
	).Scan(&order.ID, &order.UserID, &order.Status, &order.DatePlaced)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	lines, err := r.linesByOrder(ctx, q, id)
	if err != nil {
		return nil, nil, err
	}

	return &order, lines, nil
}

func (r *orderRepository) collectDetails(ctx context.Context, rows *sql.Rows) ([]model.OrderDetail, error) {
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.DatePlaced); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	details := make([]model.OrderDetail, 0, len(orders))
	for _, o := range orders {
		lines, err := r.linesByOrder(ctx, r.db, o.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, model.OrderDetail{Order: o, Lines: lines})
	}

	return details, nil
}

func (r *orderRepository) linesByOrder(ctx context.Context, q querier, orderID uuid.UUID) ([]model.OrderLine, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, purchased_price, wholesale_price
		 FROM order_lines WHERE order_id = ?`,
		orderID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.PurchasedPrice, &l.WholesalePrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	cache := make(map[uuid.UUID]string)
	for i := range lines {
		name, err := productName(ctx, q, cache, lines[i].ProductID)
		if err != nil {
			return nil, err
		}
		lines[i].ProductName = name
	}

	return lines, nil
}
