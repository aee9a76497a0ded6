// Package cache keeps a short-lived redis copy of active-session lookups so
// every authenticated request does not round-trip to Postgres. The store
// remains the source of truth; a revoked session can outlive revocation here
// for at most the cache TTL.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 30 * time.Second

// SessionSource is the authoritative lookup (the Postgres sessions repo).
type SessionSource interface {
	Active(ctx context.Context, jti string) (string, error)
}

type Sessions struct {
	inner SessionSource
	rdb   *redis.Client
	ttl   time.Duration
}

// NewSessions wraps a source with a redis fast path. A nil client disables
// caching entirely; lookups go straight to the source.
func NewSessions(inner SessionSource, rdb *redis.Client, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Sessions{inner: inner, rdb: rdb, ttl: ttl}
}

func sessionKey(jti string) string {
	return "session:" + jti
}

func (s *Sessions) Active(ctx context.Context, jti string) (string, error) {
	if s.rdb != nil {
		hash, err := s.rdb.Get(ctx, sessionKey(jti)).Result()
		if err == nil && hash != "" {
			return hash, nil
		}
		// cache miss and cache trouble both fall through to the source
		if err != nil && !errors.Is(err, redis.Nil) {
			slogDebug(ctx, "session cache read failed", err)
		}
	}

	hash, err := s.inner.Active(ctx, jti)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(jti), hash, s.ttl).Err(); err != nil {
			slogDebug(ctx, "session cache write failed", err)
		}
	}

	return hash, nil
}

// Invalidate drops the cached entry so revocation takes effect immediately
// for this jti rather than after TTL expiry.
func (s *Sessions) Invalidate(ctx context.Context, jti string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, sessionKey(jti)).Err(); err != nil {
		slogDebug(ctx, "session cache invalidate failed", err)
	}
}
