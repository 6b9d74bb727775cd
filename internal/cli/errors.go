// AngelaMos | 2026
// errors.go

package cli

import (
	"errors"
	"fmt"
)

const (
	ExitOK        = 0
	ExitBootstrap = 1
	ExitUsage     = 2
)

// UsageError is a malformed invocation: unknown command, bad flag, missing
// operand. It is the only failure that changes the exit status.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

func Usage(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// BootstrapError wraps a failure to reach the backing services.
type BootstrapError struct {
	Err error
}

func (e *BootstrapError) Error() string {
	return "startup failed: " + e.Err.Error()
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// ExitCode maps a command result to the process exit status. Business
// failures are graceful and exit 0.
func ExitCode(err error) int {
	var usage *UsageError
	var boot *BootstrapError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		return ExitUsage
	case errors.As(err, &boot):
		return ExitBootstrap
	default:
		return ExitOK
	}
}
