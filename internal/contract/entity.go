// AngelaMos | 2026
// entity.go

package contract

import (
	"time"
)

type Contract struct {
	ID           int64     `db:"id"`
	Title        string    `db:"title"`
	ClientID     int64     `db:"client_id"`
	Status       bool      `db:"status"`
	Amount       float64   `db:"amount"`
	PaidAmount   float64   `db:"paid_amount"`
	ClientName   string    `db:"client_name"`
	CommercialID *int64    `db:"commercial_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (c *Contract) IsSigned() bool {
	return c.Status
}

func (c *Contract) AmountDue() float64 {
	return c.Amount - c.PaidAmount
}

func (c *Contract) State() string {
	if c.Status {
		return "Signed"
	}
	return "Unsigned"
}

// Filter selects a subset of contracts for listing.
type Filter int

const (
	FilterAll Filter = iota
	FilterUnsigned
	FilterUnpaid
)
