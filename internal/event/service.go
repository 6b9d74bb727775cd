// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/auth"
	"github.com/carterperez-dev/epic-events/internal/contract"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

type ContractLookup interface {
	Get(ctx context.Context, id int64) (*contract.Contract, error)
}

type DepartmentChecker interface {
	IsInDepartment(ctx context.Context, userID int64, d department.Department) (bool, error)
}

type Service struct {
	repo      Repository
	contracts ContractLookup
	users     DepartmentChecker
	audit     audit.Recorder
	validate  *validator.Validate
}

func NewService(
	repo Repository,
	contracts ContractLookup,
	users DepartmentChecker,
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
		repo:      repo,
		contracts: contracts,
		users:     users,
		audit:     recorder,
		validate:  validate,
	}
}

func ErrContractNotSigned() *core.AppError {
	return core.NewError(
		core.KindContractNotSigned,
		"contract_not_signed",
		"cannot schedule an event on an unsigned contract",
	)
}

func ErrInvalidSupportUser() *core.AppError {
	return core.ValidationError(
		"invalid_support_user",
		"support contact must be a member of the Support department",
	)
}

func ErrInvalidDateRange() *core.AppError {
	return core.ValidationError(
		"invalid_date_range",
		"end date must be after start date",
	)
}

// Create schedules an event. Only signed contracts accept events.
func (s *Service) Create(
	ctx context.Context,
	caller *auth.Session,
	req CreateEventRequest,
) (*Event, error) {
	req.Normalize()

	parent, err := s.contracts.Get(ctx, req.ContractID)
	if err != nil {
		return nil, err
	}

	if !parent.IsSigned() {
		return nil, ErrContractNotSigned()
	}

	if req.Attendees <= 0 {
		return nil, core.ErrNotPositive
	}
	if err := core.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if req.SupportID != nil {
		if err := s.requireSupport(ctx, *req.SupportID); err != nil {
			return nil, err
		}
	}

	event := &Event{
		ContractID:       req.ContractID,
		StartDate:        req.StartDate,
		Location:         req.Location,
		Attendees:        req.Attendees,
		Notes:            req.Notes,
		SupportContactID: req.SupportID,
		ClientName:       parent.ClientName,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, s.translate(ctx, "create event", err, map[string]any{
			"contract_id": req.ContractID,
		})
	}

	s.audit.EventCreated(ctx, audit.EventCreated{
		EventID:    event.ID,
		ContractID: event.ContractID,
		ClientName: parent.ClientName,
		CreatedBy:  caller.Username,
	})

	return event, nil
}

// Update applies the non-empty fields of req. A Support caller may only
// update events assigned to them.
func (s *Service) Update(
	ctx context.Context,
	caller *auth.Session,
	id int64,
	req UpdateEventRequest,
) (*Event, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, "update event", err, map[string]any{"event_id": id})
	}

	if caller.Is(department.Support) && !current.AssignedTo(caller.UserID) {
		return nil, core.ForbiddenError("you can only update events assigned to you")
	}

	var changes []core.Change

	if req.SupportContactID != nil {
		if err := s.requireSupport(ctx, *req.SupportContactID); err != nil {
			return nil, err
		}
		changes = append(changes, core.Change{Column: "support_contact_id", Value: *req.SupportContactID})
	}

	if req.Attendees != nil {
		if *req.Attendees <= 0 {
			return nil, core.ErrNotPositive
		}
		changes = append(changes, core.Change{Column: "attendees", Value: *req.Attendees})
	}

	start := current.StartDate
	if req.StartDate != nil && !req.StartDate.IsZero() {
		start = *req.StartDate
		changes = append(changes, core.Change{Column: "start_date", Value: start})
	}

	end := current.EndDate
	if req.EndDate != nil && !req.EndDate.IsZero() {
		end = req.EndDate
		changes = append(changes, core.Change{Column: "end_date", Value: *end})
	}

	datesChanged := (req.StartDate != nil && !req.StartDate.IsZero()) ||
		(req.EndDate != nil && !req.EndDate.IsZero())
	if datesChanged && end != nil && !end.After(start) {
		return nil, ErrInvalidDateRange()
	}

	if present(req.Location) {
		changes = append(changes, core.Change{Column: "location", Value: strings.TrimSpace(*req.Location)})
	}

	if present(req.Notes) {
		changes = append(changes, core.Change{Column: "notes", Value: strings.TrimSpace(*req.Notes)})
	}

	if err := core.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		return nil, core.EmptyPatchError()
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, s.translate(ctx, "update event", err, map[string]any{
			"event_id":      id,
			"update_fields": strings.Join(core.Columns(changes), ","),
		})
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, "update event", err, map[string]any{"event_id": id})
	}

	return updated, nil
}

// ListAssignedTo returns the caller's events. Only Support members have
// assignments.
func (s *Service) ListAssignedTo(ctx context.Context, caller *auth.Session) ([]Event, error) {
	if !caller.Is(department.Support) {
		return nil, core.ForbiddenError("only Support members have assigned events")
	}

	events, err := s.repo.ListBySupport(ctx, caller.UserID)
	if err != nil {
		return nil, s.translate(ctx, "list assigned events", err, nil)
	}
	return events, nil
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.translate(ctx, "list events", err, nil)
	}
	return events, nil
}

func (s *Service) requireSupport(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidSupportUser()
	}

	ok, err := s.users.IsInDepartment(ctx, userID, department.Support)
	if err != nil {
		return s.translate(ctx, "check support user", err, map[string]any{"user_id": userID})
	}
	if !ok {
		return ErrInvalidSupportUser()
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

	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("event")
	}

	if fields == nil {
		fields = map[string]any{}
	}
	fields["action"] = strings.ReplaceAll(op, " ", "_")
	s.audit.Exception(ctx, err, fields)

	return core.StoreFailureError(op, err)
}
