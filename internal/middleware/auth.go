// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"

	"github.com/carterperez-dev/epic-events/internal/auth"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

type contextKey string

const SessionKey contextKey = "session"

// Handler is one CLI operation. Arguments are whatever the command
// parser left after flags.
type Handler func(ctx context.Context, args []string) error

type SessionSource interface {
	Current(ctx context.Context) (*auth.Session, bool)
}

// Authenticator rejects with Unauthenticated when no valid session exists
// and otherwise runs next with the session in the context.
func Authenticator(source SessionSource) func(Handler) Handler {
	return func(next Handler) Handler {
		return func(ctx context.Context, args []string) error {
			session, ok := source.Current(ctx)
			if !ok || session == nil || session.IsExpired() {
				return core.UnauthenticatedError(
					"you must be logged in, run 'epic auth login'",
				)
			}
			return next(WithSession(ctx, session), args)
		}
	}
}

// RequireDepartment expects a session already placed by Authenticator. An
// empty set admits every department.
func RequireDepartment(departments ...department.Department) func(Handler) Handler {
	return func(next Handler) Handler {
		return func(ctx context.Context, args []string) error {
			session := SessionFromContext(ctx)
			if session == nil {
				return core.UnauthenticatedError(
					"you must be logged in, run 'epic auth login'",
				)
			}

			if len(departments) > 0 && !session.Department.In(departments) {
				return core.ForbiddenError(
					"your department is not allowed to perform this action",
				)
			}

			return next(ctx, args)
		}
	}
}

// Require composes Authenticator and RequireDepartment. The wrapped handler
// is never invoked on rejection.
func Require(source SessionSource, departments ...department.Department) func(Handler) Handler {
	authenticate := Authenticator(source)
	authorize := RequireDepartment(departments...)
	return func(next Handler) Handler {
		return authenticate(authorize(next))
	}
}

func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

func SessionFromContext(ctx context.Context) *auth.Session {
	if session, ok := ctx.Value(SessionKey).(*auth.Session); ok {
		return session
	}
	return nil
}
