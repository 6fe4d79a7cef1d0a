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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &pgTx{tx: tx}, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx Tx, order *model.Order) error {
	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (id, user_id, status, date_placed)
		VALUES ($1, $2, $3, $4)
	`

	_, err = ptx.Exec(ctx, query, order.ID, order.UserID, order.Status, order.DatePlaced)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateLines inserts order lines within the provided transaction.
func (r *orderRepository) CreateLines(ctx context.Context, tx Tx, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO order_lines (id, order_id, product_id, quantity, purchased_price, wholesale_price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.ID, line.OrderID, line.ProductID, line.Quantity, line.PurchasedPrice, line.WholesalePrice)
	}

	results := ptx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", lines[i].OrderID.String()).
				Str("product_id", lines[i].ProductID.String()).
				Msg("failed to create order line")
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(lines)).
		Msg("order lines created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its lines.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderLine, error) {
	query := `
		SELECT id, user_id, status, date_placed
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(&order.ID, &order.UserID, &order.Status, &order.DatePlaced)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	lines, err := r.linesByOrders(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, nil, err
	}

	return &order, lines[id], nil
}

// GetByIDForUpdate retrieves an order with its lines, holding a row lock on
// the order until the transaction ends.
func (r *orderRepository) GetByIDForUpdate(ctx context.Context, tx Tx, id uuid.UUID) (*model.Order, []model.OrderLine, error) {
	ptx, err := pgxTx(tx)
	if err != nil {
		return nil, nil, err
	}

	query := `
		SELECT id, user_id, status, date_placed
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`

	var order model.Order
	err = ptx.QueryRow(ctx, query, id).Scan(&order.ID, &order.UserID, &order.Status, &order.DatePlaced)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to lock order")
		return nil, nil, fmt.Errorf("failed to lock order: %w", err)
	}

	linesQuery := `
		SELECT ol.id, ol.order_id, ol.product_id, ol.quantity, ol.purchased_price, ol.wholesale_price, p.name
		FROM order_lines ol
		JOIN products p ON p.id = ol.product_id
		WHERE ol.order_id = $1
		ORDER BY ol.id
	`

	rows, err := ptx.Query(ctx, linesQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order lines")
		return nil, nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	lines, err := scanOrderLines(rows)
	if err != nil {
		return nil, nil, err
	}

	return &order, lines, nil
}

// GetByUser retrieves a user's orders with lines, newest first.
func (r *orderRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error) {
	query := `
		SELECT id, user_id, status, date_placed
		FROM orders
		WHERE user_id = $1
		ORDER BY date_placed DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query orders by user")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return r.collectDetails(ctx, rows)
}

// GetAll retrieves every order with lines, newest first.
func (r *orderRepository) GetAll(ctx context.Context) ([]model.OrderDetail, error) {
	query := `
		SELECT id, user_id, status, date_placed
		FROM orders
		ORDER BY date_placed DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query all orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return r.collectDetails(ctx, rows)
}

// UpdateStatus records a new order status within the transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx Tx, id uuid.UUID, status string) error {
	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	tag, err := ptx.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("status", status).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

// collectDetails scans order rows and attaches their lines.
func (r *orderRepository) collectDetails(ctx context.Context, rows pgx.Rows) ([]model.OrderDetail, error) {
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

	if len(orders) == 0 {
		return []model.OrderDetail{}, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	byOrder, err := r.linesByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]model.OrderDetail, len(orders))
	for i, o := range orders {
		details[i] = model.OrderDetail{Order: o, Lines: byOrder[o.ID]}
	}

	return details, nil
}

// linesByOrders retrieves the lines of the given orders keyed by order ID,
// with product names joined in.
func (r *orderRepository) linesByOrders(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.OrderLine, error) {
	query := `
		SELECT ol.id, ol.order_id, ol.product_id, ol.quantity, ol.purchased_price, ol.wholesale_price, p.name
		FROM order_lines ol
		JOIN products p ON p.id = ol.product_id
		WHERE ol.order_id = ANY($1)
		ORDER BY ol.id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("order_count", len(ids)).Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	lines, err := scanOrderLines(rows)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID][]model.OrderLine, len(ids))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}

	return byOrder, nil
}

// scanOrderLines collects order line rows that include the product name.
func scanOrderLines(rows pgx.Rows) ([]model.OrderLine, error) {
	var lines []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.PurchasedPrice, &l.WholesalePrice, &l.ProductName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}
