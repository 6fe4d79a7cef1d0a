package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalogue product. Stock must never go negative.
// Prices are nullable: a product without a retail or wholesale price cannot
// be ordered until an administrator sets both.
type Product struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	Name           string              `json:"name" db:"name"`
	Description    string              `json:"description" db:"description"`
	Stock          int                 `json:"stock" db:"stock"`
	RetailPrice    decimal.NullDecimal `json:"retailPrice" db:"retail_price"`
	WholesalePrice decimal.NullDecimal `json:"wholesalePrice" db:"wholesale_price"`
	CreatedAt      time.Time           `json:"createdAt" db:"created_at"`
}

// ProductRequest represents the payload for creating or updating a product.
type ProductRequest struct {
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Stock          int                 `json:"stock"`
	RetailPrice    decimal.NullDecimal `json:"retailPrice"`
	WholesalePrice decimal.NullDecimal `json:"wholesalePrice"`
}
