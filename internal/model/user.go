package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Authentication itself is handled outside this service; the
// role only drives which endpoints a caller may reach.
const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

// User represents a store customer or administrator.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
