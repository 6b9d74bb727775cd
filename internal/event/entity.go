// AngelaMos | 2026
// entity.go

package event

import (
	"time"

	"github.com/carterperez-dev/epic-events/internal/core"
)

type Event struct {
	ID               int64      `db:"id"`
	ContractID       int64      `db:"contract_id"`
	StartDate        time.Time  `db:"start_date"`
	EndDate          *time.Time `db:"end_date"`
	Location         string     `db:"location"`
	Attendees        int        `db:"attendees"`
	Notes            string     `db:"notes"`
	SupportContactID *int64     `db:"support_contact_id"`
	ClientName       string     `db:"client_name"`
	SupportName      string     `db:"support_name"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// AssignedTo reports whether userID is the event's support contact.
func (e *Event) AssignedTo(userID int64) bool {
	return e.SupportContactID != nil && *e.SupportContactID == userID
}

// Period renders the event window for listings.
func (e *Event) Period() string {
	out := e.StartDate.Format(core.DateTimeLayout)
	if e.EndDate != nil {
		out += " -> " + e.EndDate.Format(core.DateTimeLayout)
	}
	return out
}
