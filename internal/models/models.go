package models

import (
	"time"

	"pitchbook/internal/timeutil"
)

// Reservation is a committed booking of a contiguous block of hours on a
// single date. Immutable once persisted.
type Reservation struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email"`
	Date         string            `json:"date"` // canonical YYYY-MM-DD key
	Interval     timeutil.Interval `json:"interval"`
	Amount       int64             `json:"amount"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Expense is a line in the owner's expense ledger.
type Expense struct {
	ID        string    `json:"id"`
	Item      string    `json:"item"`
	Category  string    `json:"category"`
	Amount    int64     `json:"amount"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerSession is an authenticated owner capability, stored server-side and
// referenced by an opaque token.
type OwnerSession struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
