// AngelaMos | 2026
// entity.go

package client

import (
	"time"
)

type Client struct {
	ID             int64     `db:"id"`
	FullName       string    `db:"fullname"`
	Contact        string    `db:"contact"`
	Email          string    `db:"email"`
	PhoneNumber    string    `db:"phone_number"`
	CommercialID   *int64    `db:"commercial_id"`
	CommercialName string    `db:"commercial_name"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ManagedBy reports whether userID is the client's assigned commercial.
func (c *Client) ManagedBy(userID int64) bool {
	return c.CommercialID != nil && *c.CommercialID == userID
}
