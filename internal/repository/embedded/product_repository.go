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

// productRepository implements repository.ProductRepository on the embedded store.
type productRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewProductRepository creates an embedded-store product repository.
func NewProductRepository(db *sql.DB, logger zerolog.Logger) repository.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, description, stock, retail_price, wholesale_price, created_at`

func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return getProduct(ctx, r.db, id)
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Description, product.Stock,
		product.RetailPrice, product.WholesalePrice, product.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, stock = ?, retail_price = ?, wholesale_price = ? WHERE id = ?`,
		product.Name, product.Description, product.Stock,
		product.RetailPrice, product.WholesalePrice, product.ID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if affected == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if affected == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// GetForUpdate reads the given products within the transaction. Stoolap has
// no explicit row locks; the MVCC engine aborts the transaction at commit
// when a concurrent writer touched the same rows, which gives the same
// all-or-nothing outcome.
func (r *productRepository) GetForUpdate(ctx context.Context, tx repository.Tx, ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	stx, err := unwrap(tx)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		p, err := getProduct(ctx, stx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products = append(products, *p)
		}
	}

	return products, nil
}

// AdjustStock reads and rewrites the stock value inside the transaction.
func (r *productRepository) AdjustStock(ctx context.Context, tx repository.Tx, id uuid.UUID, delta int) error {
	stx, err := unwrap(tx)
	if err != nil {
		return err
	}

	var stock int
	err = stx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, id).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to read stock")
		return fmt.Errorf("failed to read stock: %w", err)
	}

	if stock+delta < 0 {
		r.logger.Warn().
			Str("product_id", id.String()).
			Int("stock", stock).
			Int("delta", delta).
			Msg("stock adjustment rejected")
		return model.ErrInsufficientStock
	}

	_, err = stx.ExecContext(ctx, `UPDATE products SET stock = ? WHERE id = ?`, stock+delta, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to adjust stock")
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	return nil
}

func getProduct(ctx context.Context, q querier, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Stock, &p.RetailPrice, &p.WholesalePrice, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Stock, &p.RetailPrice, &p.WholesalePrice, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// productName resolves a product's name, caching lookups across one read.
func productName(ctx context.Context, q querier, cache map[uuid.UUID]string, id uuid.UUID) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}

	var name string
	err := q.QueryRowContext(ctx, `SELECT name FROM products WHERE id = ?`, id).Scan(&name)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to resolve product name: %w", err)
	}

	cache[id] = name
	return name, nil
}
