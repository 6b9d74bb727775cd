// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, changes []core.Change) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Count(ctx context.Context) (int, error)
	HasDepartment(ctx context.Context, id int64, d department.Department) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectUser = `
	SELECT u.id, u.employee_number, u.username, u.password_hash,
	       u.first_name, u.last_name, u.email, u.department_id,
	       d.name AS department_name, u.created_at, u.updated_at
	FROM users u
	JOIN departments d ON d.id = u.department_id`

var updatableColumns = map[string]bool{
	"username":        true,
	"employee_number": true,
	"email":           true,
	"first_name":      true,
	"last_name":       true,
	"password_hash":   true,
	"department_id":   true,
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (employee_number, username, password_hash,
		                   first_name, last_name, email, department_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		user.EmployeeNumber,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Email,
		user.DepartmentID,
	)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("create user: %w", core.TranslatePgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, selectUser+" WHERE u.id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, selectUser+" WHERE u.username = $1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &user, nil
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.db.SelectContext(ctx, &users, selectUser+" ORDER BY u.id"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *repository) Update(ctx context.Context, id int64, changes []core.Change) error {
	query, args, err := core.BuildUpdate("users", id, changes, updatableColumns)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", core.TranslatePgError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	return r.Update(ctx, id, []core.Change{{Column: "password_hash", Value: passwordHash}})
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *repository) HasDepartment(
	ctx context.Context,
	id int64,
	d department.Department,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users u
			JOIN departments d ON d.id = u.department_id
			WHERE u.id = $1 AND LOWER(d.name) = LOWER($2)
		)`

	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, id, d.String()); err != nil {
		return false, fmt.Errorf("check user department: %w", err)
	}
	return ok, nil
}
