// AngelaMos | 2026
// service_test.go

package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/auth"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

// --- fakes ---

type memoryRepo struct {
	clients     map[int64]*Client
	nextID      int64
	updateCalls int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{clients: map[int64]*Client{}, nextID: 1}
}

func (m *memoryRepo) Create(_ context.Context, c *Client) error {
	for _, existing := range m.clients {
		if existing.Email == c.Email {
			return fmt.Errorf("create client: %w", &core.DuplicateKeyError{Field: "email"})
		}
	}
	c.ID = m.nextID
	m.nextID++
	stored := *c
	m.clients[c.ID] = &stored
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, fmt.Errorf("get client: %w", core.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (m *memoryRepo) List(context.Context) ([]Client, error) {
	out := make([]Client, 0, len(m.clients))
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.clients[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, changes []core.Change) error {
	m.updateCalls++
	c, ok := m.clients[id]
	if !ok {
		return fmt.Errorf("update client: %w", core.ErrNotFound)
	}
	for _, ch := range changes {
		switch ch.Column {
		case "fullname":
			c.FullName = ch.Value.(string)
		case "contact":
			c.Contact = ch.Value.(string)
		case "email":
			c.Email = ch.Value.(string)
		case "phone_number":
			c.PhoneNumber = ch.Value.(string)
		case "commercial_id":
			v := ch.Value.(int64)
			c.CommercialID = &v
		}
	}
	return nil
}

func (m *memoryRepo) AssignCommercial(ctx context.Context, id, commercialID int64) error {
	return m.Update(ctx, id, []core.Change{{Column: "commercial_id", Value: commercialID}})
}

// staffDirectory maps user ids to departments.
type staffDirectory map[int64]department.Department

func (d staffDirectory) IsInDepartment(_ context.Context, id int64, dept department.Department) (bool, error) {
	got, ok := d[id]
	return ok && got == dept, nil
}

var staff = staffDirectory{
	1: department.Gestion,
	2: department.Commercial,
	3: department.Commercial,
	4: department.Support,
}

func session(id int64) *auth.Session {
	return &auth.Session{UserID: id, Username: fmt.Sprintf("user%d", id), Department: staff[id]}
}

func strPtr(s string) *string { return &s }

func newTestService(opts Options) (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, staff, &audit.Memory{}, nil, opts), repo
}

func seedClient(t *testing.T, svc *Service, commercialID int64) *Client {
	t.Helper()
	c, err := svc.Create(context.Background(), session(commercialID), CreateClientRequest{
		FullName:     "Kevin Casey",
		Contact:      "Kevin",
		Email:        fmt.Sprintf("kevin%d@startup.io", commercialID),
		PhoneNumber:  "+678 123 456 78",
		CommercialID: commercialID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return c
}

// --- tests ---

func TestService_Create(t *testing.T) {
	svc, repo := newTestService(Options{})
	c := seedClient(t, svc, 2)

	if !repo.clients[c.ID].ManagedBy(2) {
		t.Error("client not assigned to the requested commercial")
	}
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateClientRequest
		code string
	}{
		{
			name: "malformed email",
			req:  CreateClientRequest{FullName: "A", Email: "not-an-email", CommercialID: 2},
			code: "invalid_email",
		},
		{
			name: "support user as commercial",
			req:  CreateClientRequest{FullName: "A", Email: "a@b.co", CommercialID: 4},
			code: "invalid_commercial",
		},
		{
			name: "unknown commercial",
			req:  CreateClientRequest{FullName: "A", Email: "a@b.co", CommercialID: 77},
			code: "invalid_commercial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(Options{})

			_, err := svc.Create(context.Background(), session(2), tt.req)

			var appErr *core.AppError
			if !errors.As(err, &appErr) || appErr.Code != tt.code {
				t.Fatalf("err = %v, want code %q", err, tt.code)
			}
			if len(repo.clients) != 0 {
				t.Error("invalid client was persisted")
			}
		})
	}
}

func TestService_UpdateOwnership(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		caller  int64
		owner   int64
		wantErr error
	}{
		{"owner commercial", Options{}, 2, 2, nil},
		{"other commercial rejected", Options{}, 3, 2, core.ErrForbidden},
		{"gestion bypasses", Options{}, 1, 2, nil},
		{"legacy mode lets other commercial through", Options{LegacyOwnership: true}, 3, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(tt.opts)
			c := seedClient(t, svc, tt.owner)

			_, err := svc.Update(context.Background(), session(tt.caller), c.ID, UpdateClientRequest{
				Contact: strPtr("New Contact"),
			})

			if tt.wantErr == nil && err != nil {
				t.Fatalf("Update: %v", err)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if repo.updateCalls != 0 {
					t.Error("rejected update reached the store")
				}
				if repo.clients[c.ID].Contact != "Kevin" {
					t.Error("rejected update mutated the client")
				}
			}
		})
	}
}

func TestService_UpdateUnassignedClientForbidsCommercial(t *testing.T) {
	svc, repo := newTestService(Options{})
	repo.clients[1] = &Client{ID: 1, FullName: "Orphan", Email: "o@x.io"}
	repo.nextID = 2

	_, err := svc.Update(context.Background(), session(2), 1, UpdateClientRequest{Contact: strPtr("x")})
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestService_UpdatePatchRules(t *testing.T) {
	svc, repo := newTestService(Options{})
	c := seedClient(t, svc, 2)
	ctx := context.Background()
	gestion := session(1)

	if _, err := svc.Update(ctx, gestion, 999, UpdateClientRequest{Contact: strPtr("x")}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing client err = %v", err)
	}

	if _, err := svc.Update(ctx, gestion, c.ID, UpdateClientRequest{Email: strPtr("bad@")}); err != core.ErrInvalidEmail {
		t.Errorf("bad email err = %v", err)
	}

	support := int64(4)
	_, err := svc.Update(ctx, gestion, c.ID, UpdateClientRequest{CommercialID: &support})
	var appErr *core.AppError
	if !errors.As(err, &appErr) || appErr.Code != "invalid_commercial" {
		t.Errorf("support reassignment err = %v", err)
	}

	_, err = svc.Update(ctx, gestion, c.ID, UpdateClientRequest{FullName: strPtr(""), Contact: strPtr("   ")})
	if !errors.Is(err, core.ErrEmptyPatch) {
		t.Errorf("blank patch err = %v, want empty patch", err)
	}

	if repo.updateCalls != 0 {
		t.Fatalf("store written %d times before a valid patch", repo.updateCalls)
	}

	other := int64(3)
	updated, err := svc.Update(ctx, gestion, c.ID, UpdateClientRequest{
		PhoneNumber:  strPtr("0102030405"),
		CommercialID: &other,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PhoneNumber != "0102030405" || !updated.ManagedBy(3) {
		t.Errorf("updated = %+v", updated)
	}
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(Options{})
	seedClient(t, svc, 2)
	seedClient(t, svc, 3)

	clients, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(clients) != 2 || clients[0].ID != 1 || clients[1].ID != 2 {
		t.Errorf("List = %+v", clients)
	}
}
