// AngelaMos | 2026
// repository.go

package contract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/epic-events/internal/core"
)

type Repository interface {
	Create(ctx context.Context, contract *Contract) error
	GetByID(ctx context.Context, id int64) (*Contract, error)
	List(ctx context.Context, filter Filter) ([]Contract, error)
	Update(ctx context.Context, id int64, changes []core.Change) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectContract = `
	SELECT ct.id, ct.title, ct.client_id, ct.status, ct.amount, ct.paid_amount,
	       cl.fullname AS client_name, cl.commercial_id,
	       ct.created_at, ct.updated_at
	FROM contracts ct
	JOIN clients cl ON cl.id = ct.client_id`

var filterClauses = map[Filter]string{
	FilterAll:      "",
	FilterUnsigned: " WHERE ct.status = FALSE",
	FilterUnpaid:   " WHERE ct.paid_amount < ct.amount",
}

var updatableColumns = map[string]bool{
	"title":       true,
	"status":      true,
	"amount":      true,
	"paid_amount": true,
}

func (r *repository) Create(ctx context.Context, contract *Contract) error {
	query := `
		INSERT INTO contracts (title, client_id, status, amount, paid_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		contract.Title,
		contract.ClientID,
		contract.Status,
		contract.Amount,
		contract.PaidAmount,
	)
	if err := row.Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create contract: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create contract: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Contract, error) {
	var contract Contract
	err := r.db.GetContext(ctx, &contract, selectContract+" WHERE ct.id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get contract: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get contract: %w", err)
	}

	return &contract, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Contract, error) {
	clause, ok := filterClauses[filter]
	if !ok {
		return nil, fmt.Errorf("list contracts: unknown filter %d", filter)
	}

	var contracts []Contract
	query := selectContract + clause + " ORDER BY ct.id"
	if err := r.db.SelectContext(ctx, &contracts, query); err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}

func (r *repository) Update(ctx context.Context, id int64, changes []core.Change) error {
	query, args, err := core.BuildUpdate("contracts", id, changes, updatableColumns)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if core.IsCheckViolation(err) {
			return fmt.Errorf("update contract: %w", core.ErrOverPayment)
		}
		return fmt.Errorf("update contract: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update contract: %w", core.ErrNotFound)
	}

	return nil
}
