package service

import (
	"context"

	"duper-mart/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines operations for product catalogue management.
type CatalogService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create adds a new product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update overwrites a product's mutable fields.
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartService defines operations for cart management.
type CartService interface {
	// GetLines retrieves a user's cart lines. A user without a cart gets an
	// empty slice, not an error.
	GetLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)

	// AddProduct adds a product to a user's cart, creating the cart when the
	// user has none and merging the quantity into an existing line.
	AddProduct(ctx context.Context, req *model.AddToCartRequest) (*model.CartLine, error)

	// UpdateQuantity sets the quantity of the cart line for a product. A
	// quantity of zero removes the line.
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error

	// RemoveProduct removes the cart line for a product.
	RemoveProduct(ctx context.Context, userID, productID uuid.UUID) error

	// Clear removes every line from a user's cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// OrderService defines operations for order placement and lifecycle.
type OrderService interface {
	// PlaceOrderFromCart places an order from the user's cart and clears the
	// cart. The whole checkout is atomic: every line is validated before any
	// stock moves, and a failure leaves stock and cart untouched.
	PlaceOrderFromCart(ctx context.Context, userID uuid.UUID) (*model.OrderDetail, error)

	// PlaceOrderFromLines places an order from explicit lines, leaving any
	// cart untouched. Same atomicity contract as PlaceOrderFromCart.
	PlaceOrderFromLines(ctx context.Context, userID uuid.UUID, lines []model.OrderLineRequest) (*model.OrderDetail, error)

	// GetDetail retrieves an order with its lines.
	GetDetail(ctx context.Context, orderID uuid.UUID) (*model.OrderDetail, error)

	// GetByUser retrieves a user's orders, newest first.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error)

	// GetAll retrieves every order, newest first.
	GetAll(ctx context.Context) ([]model.OrderDetail, error)

	// UpdateStatus moves an order to a new status. Cancelling restores stock
	// exactly once; completed orders cannot be cancelled and cancelled orders
	// cannot be completed.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error)
}

// StatsService defines sales analytics computed from order history. Every
// call rescans the relevant orders; nothing is cached.
type StatsService interface {
	// MostFrequentlyPurchased ranks the top N products a user has purchased
	// by total quantity, ignoring cancelled orders.
	MostFrequentlyPurchased(ctx context.Context, userID uuid.UUID, topN int) ([]model.ProductStats, error)

	// MostRecentlyPurchased ranks the top N products a user has purchased by
	// most recent order date, ignoring cancelled orders.
	MostRecentlyPurchased(ctx context.Context, userID uuid.UUID, topN int) ([]model.ProductStats, error)

	// MostProfitable ranks the top N products by profit over completed
	// orders, using the prices captured on each order line.
	MostProfitable(ctx context.Context, topN int) ([]model.ProductProfit, error)

	// MostPopular returns the five best selling products over completed
	// orders.
	MostPopular(ctx context.Context) ([]model.ProductStats, error)

	// TopSellingProduct returns the single best selling product over
	// completed orders, or nil when nothing has sold.
	TopSellingProduct(ctx context.Context) (*model.ProductStats, error)

	// ProductSales returns units sold per product name over completed orders.
	ProductSales(ctx context.Context) (map[string]int64, error)

	// TotalOrderCount returns the number of orders ever placed, in any
	// status.
	TotalOrderCount(ctx context.Context) (int, error)
}

// WatchlistService defines operations for per-user product watchlists.
type WatchlistService interface {
	// GetByUser retrieves a user's watchlist entries.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error)

	// Add puts a product on a user's watchlist. Adding a product already on
	// the list returns the existing entry with created false.
	Add(ctx context.Context, req *model.WatchlistRequest) (entry *model.WatchlistEntry, created bool, err error)

	// Remove takes a product off a user's watchlist. Removing a product that
	// is not on the list is a no-op.
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}
