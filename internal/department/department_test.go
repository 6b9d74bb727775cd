// AngelaMos | 2026
// department_test.go

package department

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/core"
)

type memoryRepo struct {
	records []Record
	err     error
}

func (m *memoryRepo) List(context.Context) ([]Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]Record(nil), m.records...), nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*Record, error) {
	for _, r := range m.records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("get department: %w", core.ErrNotFound)
}

func (m *memoryRepo) GetByName(_ context.Context, name string) (*Record, error) {
	if m.err != nil {
		return nil, fmt.Errorf("get department by name: %w", m.err)
	}
	for _, r := range m.records {
		if strings.EqualFold(r.Name, name) {
			rec := r
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("get department by name: %w", core.ErrNotFound)
}

func (m *memoryRepo) Create(_ context.Context, name string) (*Record, error) {
	rec := Record{ID: int64(len(m.records) + 1), Name: name}
	m.records = append(m.records, rec)
	return &rec, nil
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Department
	}{
		{"Gestion", Gestion},
		{"gestion", Gestion},
		{" COMMERCIAL ", Commercial},
		{"support", Support},
		{"Marketing", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDepartment_In(t *testing.T) {
	if !Commercial.In([]Department{Gestion, Commercial}) {
		t.Error("Commercial not in {Gestion, Commercial}")
	}
	if Support.In([]Department{Gestion, Commercial}) {
		t.Error("Support in {Gestion, Commercial}")
	}
	if Gestion.In(nil) {
		t.Error("membership of an empty set")
	}
	if Unknown.Valid() || Unknown.String() != "Unknown" {
		t.Errorf("Unknown = %q valid=%v", Unknown.String(), Unknown.Valid())
	}
}

func TestService_EnsureDefaults(t *testing.T) {
	repo := &memoryRepo{records: []Record{{ID: 1, Name: "commercial"}}}
	svc := NewService(repo, nil)
	ctx := context.Background()

	added, err := svc.EnsureDefaults(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}
	if strings.Join(added, ",") != "Gestion,Support" {
		t.Errorf("added = %v", added)
	}

	added, _ = svc.EnsureDefaults(ctx)
	if len(added) != 0 {
		t.Errorf("second run added %v", added)
	}

	names, _ := svc.Names(ctx)
	if len(names) != 3 {
		t.Errorf("names = %v", names)
	}
}

func TestService_Lookup(t *testing.T) {
	repo := &memoryRepo{records: []Record{{ID: 1, Name: "Gestion"}, {ID: 2, Name: "Support"}}}
	svc := NewService(repo, nil)
	ctx := context.Background()

	d, err := svc.Get(ctx, 2)
	if err != nil || d != Support {
		t.Errorf("Get(2) = %v, %v", d, err)
	}

	if _, err := svc.Get(ctx, 9); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get(9) err = %v, want not found", err)
	}

	id, err := svc.ResolveID(ctx, Gestion)
	if err != nil || id != 1 {
		t.Errorf("ResolveID(Gestion) = %d, %v", id, err)
	}

	if _, err := svc.ResolveID(ctx, Commercial); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("ResolveID(Commercial) err = %v, want not found", err)
	}

	if _, err := svc.ResolveID(ctx, Unknown); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("ResolveID(Unknown) err = %v, want validation", err)
	}
}

func TestService_StoreFailuresAreAudited(t *testing.T) {
	rec := &audit.Memory{}
	svc := NewService(&memoryRepo{err: errors.New("connection refused")}, rec)
	ctx := context.Background()

	if _, err := svc.EnsureDefaults(ctx); core.KindOf(err) != core.KindStoreFailure {
		t.Errorf("EnsureDefaults kind = %q, want store_failure", core.KindOf(err))
	}
	if _, err := svc.Names(ctx); !errors.Is(err, core.ErrStoreFailure) {
		t.Errorf("Names err = %v, want store failure", err)
	}
	if _, err := svc.ResolveID(ctx, Support); !errors.Is(err, core.ErrStoreFailure) {
		t.Errorf("ResolveID err = %v, want store failure", err)
	}

	if len(rec.Exceptions) != 3 {
		t.Errorf("exceptions = %d, want 3", len(rec.Exceptions))
	}
}
