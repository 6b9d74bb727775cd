// AngelaMos | 2026
// service.go

package department

import (
	"context"
	"errors"
	"strings"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/core"
)

type Service struct {
	repo  Repository
	audit audit.Recorder
}

func NewService(repo Repository, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{repo: repo, audit: recorder}
}

// EnsureDefaults inserts whichever of Gestion, Commercial and Support is
// missing and returns the names it added.
func (s *Service) EnsureDefaults(ctx context.Context) ([]string, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, "seed departments", err, nil)
	}

	present := make(map[Department]bool, len(existing))
	for _, rec := range existing {
		present[rec.Department()] = true
	}

	var added []string
	for _, d := range All() {
		if present[d] {
			continue
		}
		if _, err := s.repo.Create(ctx, d.String()); err != nil {
			return added, s.storeFailure(ctx, "seed departments", err, map[string]any{
				"department": d.String(),
			})
		}
		added = append(added, d.String())
	}

	return added, nil
}

func (s *Service) Names(ctx context.Context) ([]string, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, "list departments", err, nil)
	}

	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Name)
	}
	return out, nil
}

func (s *Service) ResolveID(ctx context.Context, d Department) (int64, error) {
	if !d.Valid() {
		return 0, core.ValidationError("unknown_department", "unknown department")
	}

	rec, err := s.repo.GetByName(ctx, d.String())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return 0, core.NotFoundError("department")
		}
		return 0, s.storeFailure(ctx, "resolve department", err, map[string]any{
			"department": d.String(),
		})
	}

	return rec.ID, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Department, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Unknown, core.NotFoundError("department")
		}
		return Unknown, s.storeFailure(ctx, "get department", err, map[string]any{
			"department_id": id,
		})
	}

	return rec.Department(), nil
}

func (s *Service) storeFailure(
	ctx context.Context,
	op string,
	err error,
	fields map[string]any,
) error {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["action"] = strings.ReplaceAll(op, " ", "_")
	s.audit.Exception(ctx, err, fields)
	return core.StoreFailureError(op, err)
}
