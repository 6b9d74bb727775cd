// AngelaMos | 2026
// dto.go

package client

import (
	"strings"
)

type CreateClientRequest struct {
	FullName     string `json:"fullname"      validate:"required,max=255"`
	Contact      string `json:"contact"       validate:"max=255"`
	Email        string `json:"email"         validate:"required,crmemail,max=255"`
	PhoneNumber  string `json:"phone_number"  validate:"max=20"`
	CommercialID int64  `json:"commercial_id" validate:"gt=0"`
}

func (r *CreateClientRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Contact = strings.TrimSpace(r.Contact)
	r.Email = strings.TrimSpace(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

// UpdateClientRequest is a sparse patch. Nil and empty values are dropped.
type UpdateClientRequest struct {
	FullName     *string `json:"fullname,omitempty"     validate:"omitempty,max=255"`
	Contact      *string `json:"contact,omitempty"      validate:"omitempty,max=255"`
	Email        *string `json:"email,omitempty"        validate:"omitempty,max=255"`
	PhoneNumber  *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	CommercialID *int64  `json:"commercial_id,omitempty"`
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
