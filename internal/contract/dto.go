// AngelaMos | 2026
// dto.go

package contract

import (
	"strings"
)

type CreateContractRequest struct {
	Title    string  `json:"title"     validate:"max=255"`
	ClientID int64   `json:"client_id" validate:"gt=0"`
	Amount   float64 `json:"amount"    validate:"gte=0"`
}

func (r *CreateContractRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

// UpdateContractRequest signs and/or records a payment. PaidAmount is an
// absolute value; zero or negative values are ignored.
type UpdateContractRequest struct {
	Sign       bool     `json:"sign"`
	PaidAmount *float64 `json:"paid_amount,omitempty"`
}
