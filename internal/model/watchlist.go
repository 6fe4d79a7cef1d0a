package model

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistEntry marks a product a user wants to keep an eye on. Entries
// are independent of carts and orders.
type WatchlistEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	ProductID   uuid.UUID `json:"productId" db:"product_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	ProductName string    `json:"productName,omitempty" db:"-"`
}

// WatchlistRequest represents the payload for adding a watchlist entry.
type WatchlistRequest struct {
	UserID    uuid.UUID `json:"userId"`
	ProductID uuid.UUID `json:"productId"`
}
