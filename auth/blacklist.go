package auth

import (
	"context"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/calc_backend/config"
)

// TokenBlacklist records revoked token IDs (jti claims) until their natural expiry.
// The auth middleware consults it on every authenticated request.
type TokenBlacklist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// NewTokenBlacklist picks the PROCESS-WIDE implementation at startup: redis-backed
// with TTL when a redis address is configured, an in-process set otherwise. The
// in-process set does not expire entries and does not survive restarts; it exists
// so the service stays usable in environments without redis (local dev, tests).
func NewTokenBlacklist(settings config.Settings) TokenBlacklist {
	if settings.RedisAddress == "" {
		return NewMemoryBlacklist()
	}
	return &RedisBlacklist{}
}

/*
caches:
	Blacklist:$jti
*/

type RedisBlacklist struct{}

func (b *RedisBlacklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// already expired, nothing to revoke
		return nil
	}
	return config.SetRedisValue("Blacklist:"+jti, "1", ttl)
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	_, exists, err := config.GetRedisValue("Blacklist:" + jti)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type MemoryBlacklist struct {
	mu   sync.RWMutex
	jtis map[string]struct{}
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{jtis: map[string]struct{}{}}
}

func (b *MemoryBlacklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = struct{}{}
	return nil
}

func (b *MemoryBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.jtis[jti]
	return ok, nil
}
