// AngelaMos | 2026
// service.go

package client

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

// DepartmentChecker answers whether a user belongs to a department.
type DepartmentChecker interface {
	IsInDepartment(ctx context.Context, userID int64, d department.Department) (bool, error)
}

type Options struct {
	// LegacyOwnership disables the Commercial ownership check on Update,
	// matching deployments that never enforced it.
	LegacyOwnership bool
}

type Service struct {
	repo     Repository
	users    DepartmentChecker
	audit    audit.Recorder
	validate *validator.Validate
	opts     Options
}

func NewService(
	repo Repository,
	users DepartmentChecker,
	recorder audit.Recorder,
	validate *validator.Validate,
	opts Options,
) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	if validate == nil {
		validate = core.NewValidator()
	}
	return &Service{
		repo:     repo,
		users:    users,
		audit:    recorder,
		validate: validate,
		opts:     opts,
	}
}

func ErrInvalidCommercial() *core.AppError {
	return core.ValidationError(
		"invalid_commercial",
		"commercial_id does not belong to a Commercial user",
	)
}

func (s *Service) Create(
	ctx context.Context,
	caller *auth.Session,
	req CreateClientRequest,
) (*Client, error) {
	req.Normalize()

	if !core.ValidateEmail(req.Email) {
		return nil, core.ErrInvalidEmail
	}

	if err := s.requireCommercial(ctx, req.CommercialID); err != nil {
		return nil, err
	}

	if err := core.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	commercialID := req.CommercialID
	client := &Client{
		FullName:     req.FullName,
		Contact:      req.Contact,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		CommercialID: &commercialID,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, s.translate(ctx, "create client", err, map[string]any{
			"email":     req.Email,
			"caller_id": callerID(caller),
		})
	}

	return client, nil
}

// Update applies the non-empty fields of req to the client. A Commercial
// caller may only update clients assigned to them.
func (s *Service) Update(
	ctx context.Context,
	caller *auth.Session,
	id int64,
	req UpdateClientRequest,
) (*Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, "update client", err, map[string]any{"client_id": id})
	}

	if !s.opts.LegacyOwnership && caller.Is(department.Commercial) &&
		!client.ManagedBy(caller.UserID) {
		return nil, core.ForbiddenError("you can only update your own clients")
	}

	var changes []core.Change

	if present(req.FullName) {
		changes = append(changes, core.Change{Column: "fullname", Value: strings.TrimSpace(*req.FullName)})
	}

	if present(req.Contact) {
		changes = append(changes, core.Change{Column: "contact", Value: strings.TrimSpace(*req.Contact)})
	}

	if present(req.Email) {
		email := strings.TrimSpace(*req.Email)
		if !core.ValidateEmail(email) {
			return nil, core.ErrInvalidEmail
		}
		changes = append(changes, core.Change{Column: "email", Value: email})
	}

	if present(req.PhoneNumber) {
		changes = append(changes, core.Change{Column: "phone_number", Value: strings.TrimSpace(*req.PhoneNumber)})
	}

	if req.CommercialID != nil && *req.CommercialID != 0 {
		if err := s.requireCommercial(ctx, *req.CommercialID); err != nil {
			return nil, err
		}
		changes = append(changes, core.Change{Column: "commercial_id", Value: *req.CommercialID})
	}

	if err := core.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		return nil, core.EmptyPatchError()
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, s.translate(ctx, "update client", err, map[string]any{
			"client_id":     id,
			"update_fields": strings.Join(core.Columns(changes), ","),
		})
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, "update client", err, map[string]any{"client_id": id})
	}

	return updated, nil
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.translate(ctx, "list clients", err, nil)
	}
	return clients, nil
}

func (s *Service) requireCommercial(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidCommercial()
	}

	ok, err := s.users.IsInDepartment(ctx, userID, department.Commercial)
	if err != nil {
		return s.translate(ctx, "check commercial", err, map[string]any{"user_id": userID})
	}
	if !ok {
		return ErrInvalidCommercial()
	}
	return nil
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
		return core.NotFoundError("client")
	}

	if fields == nil {
		fields = map[string]any{}
	}
	fields["action"] = strings.ReplaceAll(op, " ", "_")
	s.audit.Exception(ctx, err, fields)

	return core.StoreFailureError(op, err)
}

func callerID(caller *auth.Session) int64 {
	if caller == nil {
		return 0
	}
	return caller.UserID
}
