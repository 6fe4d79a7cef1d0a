package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a per-user container for cart lines, created lazily on the first
// add-to-cart.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CartLine is one (product, quantity) entry in a cart. ProductName and
// RetailPrice are denormalised onto reads for display; only the product ID
// is stored.
type CartLine struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	CartID      uuid.UUID           `json:"-" db:"cart_id"`
	ProductID   uuid.UUID           `json:"productId" db:"product_id"`
	Quantity    int                 `json:"quantity" db:"quantity"`
	ProductName string              `json:"productName,omitempty" db:"-"`
	RetailPrice decimal.NullDecimal `json:"retailPrice,omitempty" db:"-"`
}

// AddToCartRequest represents the payload for adding a product to a cart.
type AddToCartRequest struct {
	UserID    uuid.UUID `json:"userId"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// UpdateQuantityRequest represents the payload for changing a cart line
// quantity. A quantity of zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
