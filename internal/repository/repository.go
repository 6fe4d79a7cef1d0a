package repository

import (
	"context"

	"duper-mart/internal/model"

	"github.com/google/uuid"
)

// Tx is a store-agnostic transaction handle. Mutating operations that must
// be atomic (checkout, status updates) are composed from tx-scoped
// repository primitives and committed or rolled back as a unit. Each
// backend wraps its native transaction type; tx-scoped methods only accept
// handles produced by the same backend's BeginTx.
type Tx interface {
	// Commit commits the transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the transaction. Rolling back an already committed
	// transaction is a no-op error that callers may ignore.
	Rollback(ctx context.Context) error
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// GetByID retrieves a user by ID. Returns nil without error when the
	// user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil without
	// error when the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update overwrites a product's mutable fields.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetForUpdate retrieves the given products within the transaction,
	// locked against concurrent stock mutation until the transaction ends.
	GetForUpdate(ctx context.Context, tx Tx, ids []uuid.UUID) ([]model.Product, error)

	// AdjustStock adds delta (which may be negative) to a product's stock
	// within the transaction. Returns model.ErrInsufficientStock when the
	// adjustment would drive stock below zero.
	AdjustStock(ctx context.Context, tx Tx, id uuid.UUID, delta int) error
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetByUser retrieves a user's cart. Returns nil without error when the
	// user has no cart yet.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// Create inserts a new cart.
	Create(ctx context.Context, cart *model.Cart) error

	// GetLines retrieves all lines of a cart with product details attached.
	GetLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error)

	// GetLineByProduct retrieves the cart line for a product, or nil.
	GetLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*model.CartLine, error)

	// GetLineByID retrieves a cart line by its ID, or nil.
	GetLineByID(ctx context.Context, lineID uuid.UUID) (*model.CartLine, error)

	// CreateLine inserts a new cart line.
	CreateLine(ctx context.Context, line *model.CartLine) error

	// UpdateLineQuantity sets a cart line's quantity.
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error

	// DeleteLine removes a single cart line.
	DeleteLine(ctx context.Context, lineID uuid.UUID) error

	// DeleteLines removes all lines of a cart.
	DeleteLines(ctx context.Context, cartID uuid.UUID) error

	// DeleteLinesTx removes all lines of a cart within the transaction.
	// Used by checkout so the cart empties atomically with the order.
	DeleteLinesTx(ctx context.Context, tx Tx, cartID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new store transaction.
	BeginTx(ctx context.Context) (Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx Tx, order *model.Order) error

	// CreateLines inserts order lines within the provided transaction.
	CreateLines(ctx context.Context, tx Tx, lines []model.OrderLine) error

	// GetByID retrieves an order with its lines. Returns a nil order
	// without error when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderLine, error)

	// GetByIDForUpdate retrieves an order with its lines within the
	// transaction, locked against concurrent status changes.
	GetByIDForUpdate(ctx context.Context, tx Tx, id uuid.UUID) (*model.Order, []model.OrderLine, error)

	// GetByUser retrieves a user's orders with lines, newest first.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error)

	// GetAll retrieves every order with lines, newest first.
	GetAll(ctx context.Context) ([]model.OrderDetail, error)

	// UpdateStatus records a new order status within the transaction.
	UpdateStatus(ctx context.Context, tx Tx, id uuid.UUID, status string) error
}

// WatchlistRepository defines the interface for watchlist data access operations.
type WatchlistRepository interface {
	// GetByUser retrieves a user's watchlist entries with product names.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error)

	// GetByUserAndProduct retrieves a single entry, or nil.
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.WatchlistEntry, error)

	// Add inserts a new entry.
	Add(ctx context.Context, entry *model.WatchlistEntry) error

	// Remove deletes the entry for a user/product pair.
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}
