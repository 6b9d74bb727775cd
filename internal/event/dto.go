// AngelaMos | 2026
// dto.go

package event

import (
	"strings"
	"time"
)

type CreateEventRequest struct {
	ContractID int64     `json:"contract_id" validate:"gt=0"`
	StartDate  time.Time `json:"start_date"  validate:"required"`
	Attendees  int       `json:"attendees"   validate:"gt=0"`
	Location   string    `json:"location"    validate:"max=500"`
	Notes      string    `json:"notes"`
	SupportID  *int64    `json:"support_id,omitempty"`
}

func (r *CreateEventRequest) Normalize() {
	r.Location = strings.TrimSpace(r.Location)
	r.Notes = strings.TrimSpace(r.Notes)
}

// UpdateEventRequest is a sparse patch. Nil and empty values are dropped.
type UpdateEventRequest struct {
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Location         *string    `json:"location,omitempty" validate:"omitempty,max=500"`
	Attendees        *int       `json:"attendees,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	SupportContactID *int64     `json:"support_contact_id,omitempty"`
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
