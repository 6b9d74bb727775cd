// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/core"
)

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// LoginLimiter throttles login attempts per key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type Service struct {
	jwt          *JWTManager
	store        *TokenStore
	userProvider UserProvider
	revoked      RevocationList
	limiter      LoginLimiter
	audit        audit.Recorder
	logger       *slog.Logger
}

// NewService wires the identity provider. revoked and limiter may be nil.
func NewService(
	jwt *JWTManager,
	store *TokenStore,
	userProvider UserProvider,
	revoked RevocationList,
	limiter LoginLimiter,
	recorder audit.Recorder,
	logger *slog.Logger,
) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		jwt:          jwt,
		store:        store,
		userProvider: userProvider,
		revoked:      revoked,
		limiter:      limiter,
		audit:        recorder,
		logger:       logger,
	}
}

func (s *Service) Login(
	ctx context.Context,
	username, password string,
) (*Session, error) {
	username = strings.TrimSpace(username)

	if s.limiter != nil {
		allowed, retryAfter, err := s.limiter.Allow(ctx, "ratelimit:login:"+username)
		if err != nil {
			s.logger.Warn("login limiter unavailable", "error", err)
		} else if !allowed {
			return nil, core.NewError(
				core.KindRateLimited,
				"rate_limited",
				fmt.Sprintf(
					"too many login attempts, retry in %s",
					retryAfter.Round(time.Second),
				),
			)
		}
	}

	user, err := s.userProvider.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.BurnVerification(password)
			return nil, core.NotFoundError("user")
		}
		return nil, s.storeFailure(ctx, "login", err, username)
	}

	valid, newHash, err := core.VerifyAndUpgrade(password, user.PasswordHash)
	if err != nil {
		return nil, s.storeFailure(ctx, "login", fmt.Errorf("verify password: %w", err), username)
	}

	if !valid {
		return nil, core.NewError(
			core.KindInvalidCredentials,
			"invalid_credentials",
			"invalid credentials",
		)
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	token, session, err := s.jwt.CreateSessionToken(user)
	if err != nil {
		return nil, s.storeFailure(ctx, "login", err, username)
	}

	if err := s.store.Save(token); err != nil {
		return nil, s.storeFailure(ctx, "login", fmt.Errorf("save token: %w", err), username)
	}

	s.logger.Debug("session issued",
		"user_id", session.UserID,
		"department", session.Department.String(),
		"expires_at", session.ExpiresAt,
	)

	return session, nil
}

// Current resolves the session from the token file. Every failure mode
// (missing, malformed, expired, revoked) yields false.
func (s *Service) Current(ctx context.Context) (*Session, bool) {
	token, err := s.store.Load()
	if err != nil {
		s.logger.Debug("token file unreadable", "error", err)
		return nil, false
	}
	if token == "" {
		return nil, false
	}

	session, err := s.jwt.VerifySessionToken(token)
	if err != nil {
		s.logger.Debug("session token rejected", "error", err)
		return nil, false
	}

	if s.revoked != nil && session.TokenID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, session.TokenID)
		if err != nil {
			s.logger.Warn("revocation check failed", "error", err)
		} else if revoked {
			s.logger.Debug("session token rejected", "error", core.ErrTokenRevoked)
			return nil, false
		}
	}

	return session, true
}

// Logout removes the local token and, when a revocation list is
// configured, revokes it until its natural expiry. Calling it without an
// active session is not an error.
func (s *Service) Logout(ctx context.Context) (bool, error) {
	token, err := s.store.Load()
	if err != nil {
		return false, s.storeFailure(ctx, "logout", fmt.Errorf("load token: %w", err), "")
	}

	if token != "" && s.revoked != nil {
		if session, verr := s.jwt.VerifySessionToken(token); verr == nil &&
			session.TokenID != "" {
			if rerr := s.revoked.Revoke(ctx, session.TokenID, session.ExpiresAt); rerr != nil {
				s.logger.Warn("token revocation failed", "error", rerr)
			}
		}
	}

	existed, err := s.store.Remove()
	if err != nil {
		return false, s.storeFailure(ctx, "logout", fmt.Errorf("remove token: %w", err), "")
	}

	return existed, nil
}

func (s *Service) storeFailure(ctx context.Context, op string, err error, username string) error {
	fields := map[string]any{"action": op}
	if username != "" {
		fields["username"] = username
	}
	s.audit.Exception(ctx, err, fields)
	return core.StoreFailureError(op, err)
}
