// AngelaMos | 2026
// revocation.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

type RevocationList interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevocationList struct {
	client *redis.Client
}

// NewRevocationList returns nil for a nil client so the service runs
// without server side revocation.
func NewRevocationList(client *redis.Client) RevocationList {
	if client == nil {
		return nil
	}
	return &redisRevocationList{client: client}
}

func (r *redisRevocationList) Revoke(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *redisRevocationList) IsRevoked(
	ctx context.Context,
	jti string,
) (bool, error) {
	_, err := r.client.Get(ctx, blacklistPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}
