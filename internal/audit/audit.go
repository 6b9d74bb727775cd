// AngelaMos | 2026
// audit.go

package audit

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/epic-events/internal/core"
)

const (
	EventUserCreation      = "user_creation"
	EventUserUpdate        = "user_update"
	EventContractSignature = "contract_signature"
	EventCreation          = "event_creation"
	EventException         = "exception"
)

// Recorder receives business audit events. Implementations must not fail
// the calling operation.
type Recorder interface {
	UserCreated(ctx context.Context, e UserCreated)
	UserUpdated(ctx context.Context, e UserUpdated)
	ContractSigned(ctx context.Context, e ContractSigned)
	EventCreated(ctx context.Context, e EventCreated)
	Exception(ctx context.Context, err error, fields map[string]any)
}

type UserCreated struct {
	UserID     int64
	Username   string
	Department string
	CreatedBy  string
}

type UserUpdated struct {
	UserID        int64
	Username      string
	UpdatedFields []string
	UpdatedBy     string
}

type ContractSigned struct {
	ContractID int64
	ClientName string
	Amount     float64
	SignedBy   string
}

type EventCreated struct {
	EventID    int64
	ContractID int64
	ClientName string
	CreatedBy  string
}

// Sink writes audit events to slog and attaches them to the active span.
type Sink struct {
	logger *slog.Logger
}

func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{logger: logger.With("component", "audit")}
}

func (s *Sink) UserCreated(ctx context.Context, e UserCreated) {
	s.logger.InfoContext(ctx, EventUserCreation,
		"user_id", e.UserID,
		"username", e.Username,
		"department", e.Department,
		"created_by", e.CreatedBy,
	)
	core.AddSpanEvent(ctx, EventUserCreation,
		attribute.Int64("user_id", e.UserID),
		attribute.String("username", e.Username),
		attribute.String("department", e.Department),
		attribute.String("created_by", e.CreatedBy),
	)
}

func (s *Sink) UserUpdated(ctx context.Context, e UserUpdated) {
	s.logger.InfoContext(ctx, EventUserUpdate,
		"user_id", e.UserID,
		"username", e.Username,
		"updated_fields", strings.Join(e.UpdatedFields, ","),
		"updated_by", e.UpdatedBy,
	)
	core.AddSpanEvent(ctx, EventUserUpdate,
		attribute.Int64("user_id", e.UserID),
		attribute.String("username", e.Username),
		attribute.StringSlice("updated_fields", e.UpdatedFields),
		attribute.String("updated_by", e.UpdatedBy),
	)
}

func (s *Sink) ContractSigned(ctx context.Context, e ContractSigned) {
	s.logger.InfoContext(ctx, EventContractSignature,
		"contract_id", e.ContractID,
		"client_name", e.ClientName,
		"amount", e.Amount,
		"signed_by", e.SignedBy,
	)
	core.AddSpanEvent(ctx, EventContractSignature,
		attribute.Int64("contract_id", e.ContractID),
		attribute.String("client_name", e.ClientName),
		attribute.Float64("amount", e.Amount),
		attribute.String("signed_by", e.SignedBy),
	)
}

func (s *Sink) EventCreated(ctx context.Context, e EventCreated) {
	s.logger.InfoContext(ctx, EventCreation,
		"event_id", e.EventID,
		"contract_id", e.ContractID,
		"client_name", e.ClientName,
		"created_by", e.CreatedBy,
	)
	core.AddSpanEvent(ctx, EventCreation,
		attribute.Int64("event_id", e.EventID),
		attribute.Int64("contract_id", e.ContractID),
		attribute.String("client_name", e.ClientName),
		attribute.String("created_by", e.CreatedBy),
	)
}

func (s *Sink) Exception(ctx context.Context, err error, fields map[string]any) {
	if err == nil {
		return
	}

	args := make([]any, 0, 2+len(fields)*2)
	args = append(args, "error", err)
	for k, v := range fields {
		args = append(args, k, v)
	}

	s.logger.ErrorContext(ctx, EventException, args...)
	core.SetSpanError(ctx, err)
}

// Nop discards everything.
type Nop struct{}

func (Nop) UserCreated(context.Context, UserCreated) {}
func (Nop) UserUpdated(context.Context, UserUpdated) {}
func (Nop) ContractSigned(context.Context, ContractSigned) {}
func (Nop) EventCreated(context.Context, EventCreated) {}
func (Nop) Exception(context.Context, error, map[string]any) {}

// Memory keeps events for inspection in tests.
type Memory struct {
	Created    []UserCreated
	Updated    []UserUpdated
	Signed     []ContractSigned
	Events     []EventCreated
	Exceptions []error
}

func (m *Memory) UserCreated(_ context.Context, e UserCreated) {
	m.Created = append(m.Created, e)
}

func (m *Memory) UserUpdated(_ context.Context, e UserUpdated) {
	m.Updated = append(m.Updated, e)
}

func (m *Memory) ContractSigned(_ context.Context, e ContractSigned) {
	m.Signed = append(m.Signed, e)
}

func (m *Memory) EventCreated(_ context.Context, e EventCreated) {
	m.Events = append(m.Events, e)
}

func (m *Memory) Exception(_ context.Context, err error, _ map[string]any) {
	m.Exceptions = append(m.Exceptions, err)
}
