// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"

	"github.com/carterperez-dev/epic-events/internal/auth"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

type staticSource struct {
	session *auth.Session
	calls   int
}

func (s *staticSource) Current(context.Context) (*auth.Session, bool) {
	s.calls++
	return s.session, s.session != nil
}

func sessionIn(d department.Department) *auth.Session {
	return &auth.Session{
		UserID:     3,
		Username:   "carol",
		Department: d,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func TestRequire(t *testing.T) {
	errInner := errors.New("inner result")

	tests := []struct {
		name        string
		session     *auth.Session
		departments []department.Department
		wantErr     error
		wantInvoked bool
	}{
		{
			name:    "no session",
			wantErr: core.ErrUnauthenticated,
		},
		{
			name: "expired session",
			session: &auth.Session{
				UserID:     3,
				Username:   "carol",
				Department: department.Gestion,
				ExpiresAt:  time.Now().Add(-time.Minute),
			},
			wantErr: core.ErrUnauthenticated,
		},
		{
			name:        "empty set admits any department",
			session:     sessionIn(department.Support),
			wantErr:     errInner,
			wantInvoked: true,
		},
		{
			name:        "member department",
			session:     sessionIn(department.Commercial),
			departments: []department.Department{department.Gestion, department.Commercial},
			wantErr:     errInner,
			wantInvoked: true,
		},
		{
			name:        "non member department",
			session:     sessionIn(department.Support),
			departments: []department.Department{department.Gestion},
			wantErr:     core.ErrForbidden,
		},
		{
			name:        "unknown department never matches",
			session:     sessionIn(department.Unknown),
			departments: []department.Department{department.Gestion},
			wantErr:     core.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &staticSource{session: tt.session}
			invoked := false

			inner := func(ctx context.Context, _ []string) error {
				invoked = true
				if SessionFromContext(ctx) != tt.session {
					t.Error("inner handler did not receive the session")
				}
				return errInner
			}

			err := Require(source, tt.departments...)(inner)(context.Background(), nil)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if invoked != tt.wantInvoked {
				t.Errorf("invoked = %v, want %v", invoked, tt.wantInvoked)
			}
			if source.calls != 1 {
				t.Errorf("session looked up %d times, want 1", source.calls)
			}
		})
	}
}

func TestDepartmentParseIsCaseInsensitive(t *testing.T) {
	source := &staticSource{session: sessionIn(department.Parse("gEsTiOn"))}
	called := false

	err := Require(source, department.Gestion)(func(context.Context, []string) error {
		called = true
		return nil
	})(context.Background(), nil)

	if err != nil || !called {
		t.Fatalf("err = %v, called = %v", err, called)
	}
}

func TestRateLimiter_LocalFallback(t *testing.T) {
	rl := NewRateLimiter(nil, redis_rate.Limit{Rate: 2, Burst: 2, Period: time.Hour}, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := rl.Allow(ctx, "ratelimit:login:alice")
		if err != nil || !allowed {
			t.Fatalf("attempt %d = (%v, %v), want allowed", i+1, allowed, err)
		}
	}

	allowed, retryAfter, err := rl.Allow(ctx, "ratelimit:login:alice")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if allowed {
		t.Fatal("third attempt allowed, want throttled")
	}
	if retryAfter < time.Second {
		t.Errorf("retryAfter = %s, want >= 1s", retryAfter)
	}

	if allowed, _, _ := rl.Allow(ctx, "ratelimit:login:bob"); !allowed {
		t.Error("separate key was throttled")
	}
}
