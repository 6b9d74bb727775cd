// AngelaMos | 2026
// repository.go

package department

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/epic-events/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id int64) (*Record, error)
	GetByName(ctx context.Context, name string) (*Record, error)
	Create(ctx context.Context, name string) (*Record, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Record, error) {
	query := `SELECT id, name FROM departments ORDER BY id`

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	return records, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Record, error) {
	query := `SELECT id, name FROM departments WHERE id = $1`

	var record Record
	err := r.db.GetContext(ctx, &record, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get department: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get department: %w", err)
	}

	return &record, nil
}

func (r *repository) GetByName(
	ctx context.Context,
	name string,
) (*Record, error) {
	query := `SELECT id, name FROM departments WHERE LOWER(name) = LOWER($1)`

	var record Record
	err := r.db.GetContext(ctx, &record, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get department by name: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get department by name: %w", err)
	}

	return &record, nil
}

func (r *repository) Create(ctx context.Context, name string) (*Record, error) {
	query := `
		INSERT INTO departments (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	var record Record
	if err := r.db.GetContext(ctx, &record, query, name); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}

	return &record, nil
}
