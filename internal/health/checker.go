// AngelaMos | 2026
// checker.go

package health

import (
	"context"
	"sync"
	"time"
)

type Checker interface {
	Ping(ctx context.Context) error
}

type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Check is the outcome of one dependency check.
type Check struct {
	Name     string
	Healthy  bool
	Optional bool
	Latency  time.Duration
	Message  string
}

// Dependency is one backend the status report covers. A nil Checker means it is not
// configured, which only fails the report when it is required.
type Dependency struct {
	Name     string
	Checker  Checker
	Optional bool
}

// Run checks every dependency concurrently and keeps the input order.
func Run(ctx context.Context, timeout time.Duration, deps ...Dependency) []Check {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var wg sync.WaitGroup
	checks := make([]Check, len(deps))

	for i, p := range deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = checkDependency(ctx, p)
		}()
	}

	wg.Wait()
	return checks
}

// Healthy is false when any required check failed.
func Healthy(checks []Check) bool {
	for _, c := range checks {
		if !c.Healthy && !c.Optional {
			return false
		}
	}
	return true
}

func checkDependency(ctx context.Context, p Dependency) Check {
	check := Check{
		Name:     p.Name,
		Healthy:  true,
		Optional: p.Optional,
	}

	if p.Checker == nil {
		check.Healthy = false
		check.Message = "not configured"
		return check
	}

	start := time.Now()
	err := p.Checker.Ping(ctx)
	check.Latency = time.Since(start)

	if err != nil {
		check.Healthy = false
		check.Message = "ping failed: " + err.Error()
	}

	return check
}
