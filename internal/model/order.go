package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Canonical order statuses. Status is an open string: values outside this
// set are accepted unless strict status validation is enabled.
const (
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusCanceled   = "Canceled"
)

// Order represents a placed order. DatePlaced is set once at creation;
// status is the only field that may change afterwards.
type Order struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	Status     string    `json:"status" db:"status"`
	DatePlaced time.Time `json:"datePlaced" db:"date_placed"`
}

// OrderLine is an immutable line of an order. PurchasedPrice and
// WholesalePrice are snapshots taken at order time; later product price
// changes never affect historical orders. ProductName is denormalised onto
// reads.
type OrderLine struct {
	ID             uuid.UUID       `json:"-" db:"id"`
	OrderID        uuid.UUID       `json:"-" db:"order_id"`
	ProductID      uuid.UUID       `json:"productId" db:"product_id"`
	Quantity       int             `json:"quantity" db:"quantity"`
	PurchasedPrice decimal.Decimal `json:"purchasedPrice" db:"purchased_price"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice" db:"wholesale_price"`
	ProductName    string          `json:"productName,omitempty" db:"-"`
}

// OrderDetail is an order together with its lines.
type OrderDetail struct {
	Order Order       `json:"order"`
	Lines []OrderLine `json:"lines"`
}

// OrderLineRequest is a single requested line when placing an order
// directly, bypassing the cart.
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// PlaceOrderRequest represents the request payload for placing an order.
// With no lines the order is built from the user's cart; with lines the cart
// is left untouched.
type PlaceOrderRequest struct {
	UserID uuid.UUID          `json:"userId"`
	Lines  []OrderLineRequest `json:"lines,omitempty"`
}

// UpdateStatusRequest represents the payload for an order status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
