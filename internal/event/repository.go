// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/epic-events/internal/core"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	ListBySupport(ctx context.Context, supportID int64) ([]Event, error)
	Update(ctx context.Context, id int64, changes []core.Change) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectEvent = `
	SELECT e.id, e.contract_id, e.start_date, e.end_date, e.location,
	       e.attendees, e.notes, e.support_contact_id,
	       cl.fullname AS client_name,
	       COALESCE(u.first_name || ' ' || u.last_name, '') AS support_name,
	       e.created_at, e.updated_at
	FROM events e
	JOIN contracts ct ON ct.id = e.contract_id
	JOIN clients cl ON cl.id = ct.client_id
	LEFT JOIN users u ON u.id = e.support_contact_id`

var updatableColumns = map[string]bool{
	"start_date":         true,
	"end_date":           true,
	"location":           true,
	"attendees":          true,
	"notes":              true,
	"support_contact_id": true,
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO events (contract_id, start_date, end_date, location,
		                    attendees, notes, support_contact_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		event.ContractID,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.Attendees,
		event.Notes,
		event.SupportContactID,
	)
	if err := row.Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create event: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	var event Event
	err := r.db.GetContext(ctx, &event, selectEvent+" WHERE e.id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &event, nil
}

func (r *repository) List(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := r.db.SelectContext(ctx, &events, selectEvent+" ORDER BY e.id"); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *repository) ListBySupport(ctx context.Context, supportID int64) ([]Event, error) {
	var events []Event
	query := selectEvent + " WHERE e.support_contact_id = $1 ORDER BY e.id"
	if err := r.db.SelectContext(ctx, &events, query, supportID); err != nil {
		return nil, fmt.Errorf("list events by support: %w", err)
	}
	return events, nil
}

func (r *repository) Update(ctx context.Context, id int64, changes []core.Change) error {
	query, args, err := core.BuildUpdate("events", id, changes, updatableColumns)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update event: %w", core.ErrNotFound)
	}

	return nil
}
