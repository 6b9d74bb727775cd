// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/epic-events/internal/config"
)

// RateLimiter throttles by key. It uses redis_rate when a Redis client is
// available and falls back to an in-process token bucket otherwise or
// when Redis errors.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	limit    redis_rate.Limit
	logger   *slog.Logger
}

func NewRateLimiter(rdb *redis.Client, limit redis_rate.Limit, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}

	rl := &RateLimiter{
		fallback: newLocalLimiter(),
		limit:    limit,
		logger:   logger,
	}
	if rdb != nil {
		rl.limiter = redis_rate.NewLimiter(rdb)
	}
	return rl
}

// NewLoginLimiter builds the per username login throttle from config.
func NewLoginLimiter(rdb *redis.Client, cfg config.RateLimitConfig, logger *slog.Logger) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.LoginAttempts
	}
	return NewRateLimiter(rdb, redis_rate.Limit{
		Rate:   cfg.LoginAttempts,
		Burst:  burst,
		Period: cfg.Window,
	}, logger)
}

// Allow reports whether key may proceed and, if not, how long to wait.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := rl.allow(ctx, key)
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		retryAfter := res.RetryAfter
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter, nil
	}

	return true, 0, nil
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	if rl.limiter == nil {
		return rl.fallback.allow(key, rl.limit)
	}

	res, err := rl.limiter.Allow(ctx, key, rl.limit)
	if err != nil {
		rl.logger.Warn("rate limiter error, using local fallback",
			"error", err,
			"key", key,
		)
		return rl.fallback.allow(key, rl.limit)
	}
	return res, nil
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess int64
}

// localLimiter lives for one process. Entries are never evicted since a CLI
// invocation touches a single key.
type localLimiter struct {
	limiters sync.Map
}

func newLocalLimiter() *localLimiter {
	return &localLimiter{}
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d per %s", limit.Rate, limit.Period)
	}

	ratePerSec := float64(limit.Rate) / limit.Period.Seconds()
	now := time.Now().Unix()

	entryI, loaded := l.limiters.Load(key)
	if !loaded {
		newEntry := &limiterEntry{
			limiter: rate.NewLimiter(
				rate.Limit(ratePerSec),
				limit.Burst,
			),
			lastAccess: now,
		}
		entryI, _ = l.limiters.LoadOrStore(key, newEntry)
	}

	entry, ok := entryI.(*limiterEntry)
	if !ok {
		return nil, fmt.Errorf("invalid limiter entry type")
	}
	entry.lastAccess = now

	allowed := entry.limiter.Allow()

	remaining := int(entry.limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	retryAfter := time.Duration(-1)
	if !allowed {
		retryAfter = time.Duration(float64(time.Second) / ratePerSec)
	}

	allowedInt := 0
	if allowed {
		allowedInt = 1
	}

	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    allowedInt,
		Remaining:  remaining,
		RetryAfter: retryAfter,
		ResetAfter: time.Duration(float64(time.Second) / ratePerSec),
	}, nil
}
