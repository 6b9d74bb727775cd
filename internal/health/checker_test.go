// AngelaMos | 2026
// checker_test.go

package health

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRun(t *testing.T) {
	ok := CheckerFunc(func(context.Context) error { return nil })
	down := CheckerFunc(func(context.Context) error { return errors.New("connection refused") })

	checks := Run(context.Background(), time.Second,
		Dependency{Name: "database", Checker: ok},
		Dependency{Name: "redis", Checker: down, Optional: true},
		Dependency{Name: "signing keys", Checker: nil},
	)

	if len(checks) != 3 || checks[0].Name != "database" || checks[2].Name != "signing keys" {
		t.Fatalf("checks = %+v", checks)
	}
	if !checks[0].Healthy {
		t.Error("database reported unhealthy")
	}
	if checks[1].Healthy || !strings.Contains(checks[1].Message, "connection refused") {
		t.Errorf("redis = %+v", checks[1])
	}
	if checks[2].Healthy || checks[2].Message != "not configured" {
		t.Errorf("keys = %+v", checks[2])
	}
	if Healthy(checks) {
		t.Error("report healthy with a required check failing")
	}
	if !Healthy(checks[:2]) {
		t.Error("optional failure made the report unhealthy")
	}
}

func TestRun_Timeout(t *testing.T) {
	slow := CheckerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	checks := Run(context.Background(), 10*time.Millisecond, Dependency{Name: "database", Checker: slow})
	if checks[0].Healthy {
		t.Error("timed out dependency reported healthy")
	}
}
