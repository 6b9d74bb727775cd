// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/auth"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

const systemActor = "System"

type DepartmentLookup interface {
	Get(ctx context.Context, id int64) (department.Department, error)
	ResolveID(ctx context.Context, d department.Department) (int64, error)
}

type Service struct {
	repo        Repository
	departments DepartmentLookup
	audit       audit.Recorder
	validate    *validator.Validate
}

func NewService(
	repo Repository,
	departments DepartmentLookup,
	recorder audit.Recorder,
	validate *validator.Validate,
) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	if validate == nil {
		validate = core.NewValidator()
	}
	return &Service{
		repo:        repo,
		departments: departments,
		audit:       recorder,
		validate:    validate,
	}
}

func (s *Service) Create(
	ctx context.Context,
	caller *auth.Session,
	req CreateUserRequest,
) (*User, error) {
	req.Normalize()

	if !core.ValidateEmail(req.Email) {
		return nil, core.ErrInvalidEmail
	}
	if req.EmployeeNumber <= 0 {
		return nil, core.ErrNotPositive
	}
	if err := core.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	dept, err := s.departments.Get(ctx, req.DepartmentID)
	if err != nil {
		return nil, s.translate(ctx, "create user", err, map[string]any{
			"username": req.Username,
		})
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, core.StoreFailureError("create user", err)
	}

	user := &User{
		EmployeeNumber: req.EmployeeNumber,
		Username:       req.Username,
		PasswordHash:   hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		DepartmentID:   req.DepartmentID,
		DepartmentName: dept.String(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.translate(ctx, "create user", err, map[string]any{
			"username": req.Username,
			"email":    req.Email,
		})
	}

	s.audit.UserCreated(ctx, audit.UserCreated{
		UserID:     user.ID,
		Username:   user.Username,
		Department: dept.String(),
		CreatedBy:  actor(caller),
	})

	return user, nil
}

// Bootstrap creates the first Gestion user. It refuses once any user
// exists, so it cannot be used to bypass the Gestion requirement of Create.
func (s *Service) Bootstrap(ctx context.Context, req BootstrapRequest) (*User, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, s.translate(ctx, "bootstrap", err, nil)
	}
	if total > 0 {
		return nil, core.ForbiddenError(
			"users already exist, log in as a Gestion user to create accounts",
		)
	}

	gestionID, err := s.departments.ResolveID(ctx, department.Gestion)
	if err != nil {
		return nil, s.translate(ctx, "bootstrap", err, nil)
	}

	return s.Create(ctx, nil, CreateUserRequest{
		Username:       req.Username,
		EmployeeNumber: req.EmployeeNumber,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Password:       req.Password,
		DepartmentID:   gestionID,
	})
}

// Update applies the non-empty fields of req. Nothing is written when the
// patch is empty after dropping blanks.
func (s *Service) Update(
	ctx context.Context,
	caller *auth.Session,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	var changes []core.Change

	if present(req.Username) {
		changes = append(changes, core.Change{Column: "username", Value: strings.TrimSpace(*req.Username)})
	}

	if req.EmployeeNumber != nil {
		if *req.EmployeeNumber <= 0 {
			return nil, core.ErrNotPositive
		}
		changes = append(changes, core.Change{Column: "employee_number", Value: *req.EmployeeNumber})
	}

	if present(req.Email) {
		email := strings.TrimSpace(*req.Email)
		if !core.ValidateEmail(email) {
			return nil, core.ErrInvalidEmail
		}
		changes = append(changes, core.Change{Column: "email", Value: email})
	}

	if present(req.FirstName) {
		changes = append(changes, core.Change{Column: "first_name", Value: strings.TrimSpace(*req.FirstName)})
	}

	if present(req.LastName) {
		changes = append(changes, core.Change{Column: "last_name", Value: strings.TrimSpace(*req.LastName)})
	}

	if req.DepartmentID != nil {
		if _, err := s.departments.Get(ctx, *req.DepartmentID); err != nil {
			return nil, s.translate(ctx, "update user", err, map[string]any{"user_id": id})
		}
		changes = append(changes, core.Change{Column: "department_id", Value: *req.DepartmentID})
	}

	if err := core.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if present(req.Password) {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, core.StoreFailureError("update user", err)
		}
		changes = append(changes, core.Change{Column: "password_hash", Value: hash})
	}

	if len(changes) == 0 {
		return nil, core.EmptyPatchError()
	}

	fields := auditFields(changes)

	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, s.translate(ctx, "update user", err, map[string]any{
			"user_id":       id,
			"update_fields": strings.Join(fields, ","),
		})
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, "update user", err, map[string]any{"user_id": id})
	}

	s.audit.UserUpdated(ctx, audit.UserUpdated{
		UserID:        id,
		Username:      updated.Username,
		UpdatedFields: fields,
		UpdatedBy:     actor(caller),
	})

	return updated, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.translate(ctx, "list users", err, nil)
	}
	return users, nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// IsInDepartment reports whether the user exists and belongs to d.
func (s *Service) IsInDepartment(
	ctx context.Context,
	userID int64,
	d department.Department,
) (bool, error) {
	return s.repo.HasDepartment(ctx, userID, d)
}

func (s *Service) translate(
	ctx context.Context,
	op string,
	err error,
	fields map[string]any,
) error {
	if core.IsAppError(err) {
		return err
	}

	if field, ok := core.DuplicateField(err); ok {
		return core.DuplicateError(field)
	}

	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("user")
	}

	if fields == nil {
		fields = map[string]any{}
	}
	fields["action"] = strings.ReplaceAll(op, " ", "_")
	s.audit.Exception(ctx, err, fields)

	return core.StoreFailureError(op, err)
}

func auditFields(changes []core.Change) []string {
	cols := core.Columns(changes)
	for i, c := range cols {
		switch c {
		case "password_hash":
			cols[i] = "password"
		case "department_id":
			cols[i] = "department"
		}
	}
	return cols
}

func actor(caller *auth.Session) string {
	if caller == nil {
		return systemActor
	}
	return caller.Username
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Department:   u.Department(),
	}
}
