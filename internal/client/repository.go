// AngelaMos | 2026
// repository.go

package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/epic-events/internal/core"
)

type Repository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context) ([]Client, error)
	Update(ctx context.Context, id int64, changes []core.Change) error
	AssignCommercial(ctx context.Context, id, commercialID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectClient = `
	SELECT c.id, c.fullname, c.contact, c.email, c.phone_number,
	       c.commercial_id,
	       COALESCE(u.first_name || ' ' || u.last_name, '') AS commercial_name,
	       c.created_at, c.updated_at
	FROM clients c
	LEFT JOIN users u ON u.id = c.commercial_id`

var updatableColumns = map[string]bool{
	"fullname":      true,
	"contact":       true,
	"email":         true,
	"phone_number":  true,
	"commercial_id": true,
}

func (r *repository) Create(ctx context.Context, client *Client) error {
	query := `
		INSERT INTO clients (fullname, contact, email, phone_number, commercial_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		client.FullName,
		client.Contact,
		client.Email,
		client.PhoneNumber,
		client.CommercialID,
	)
	if err := row.Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt); err != nil {
		return fmt.Errorf("create client: %w", core.TranslatePgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Client, error) {
	var client Client
	err := r.db.GetContext(ctx, &client, selectClient+" WHERE c.id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get client: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	return &client, nil
}

func (r *repository) List(ctx context.Context) ([]Client, error) {
	var clients []Client
	if err := r.db.SelectContext(ctx, &clients, selectClient+" ORDER BY c.id"); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (r *repository) Update(ctx context.Context, id int64, changes []core.Change) error {
	query, args, err := core.BuildUpdate("clients", id, changes, updatableColumns)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update client: %w", core.TranslatePgError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update client: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) AssignCommercial(ctx context.Context, id, commercialID int64) error {
	return r.Update(ctx, id, []core.Change{{Column: "commercial_id", Value: commercialID}})
}
