// Package redisguard implements the guard stores on Redis, for deployments
// with more than one process instance. Check-and-insert uses SETNX, token
// consumption uses GETDEL, and the rate counter uses INCR with a window TTL -
// all atomic on the server, so concurrent instances cannot double-admit.
package redisguard

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/cache/redis"

	"github.com/google/uuid"
)

const (
	csrfPrefix  = "csrf:"
	noncePrefix = "nonce:"
	ratePrefix  = "rate:"
)

// CSRFStore stores single-use CSRF tokens in Redis with native TTL.
type CSRFStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCSRFStore creates a Redis-backed CSRF store.
func NewCSRFStore(client *redis.Client, ttl time.Duration) *CSRFStore {
	return &CSRFStore{client: client, ttl: ttl}
}

// Issue mints a fresh token; Redis evicts it after the TTL.
func (s *CSRFStore) Issue(ctx context.Context) (string, error) {
	token := uuid.New().String()
	if err := s.client.Set(ctx, csrfPrefix+token, "1", s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Validate consumes the token via GETDEL, so it validates at most once even
// across concurrent requests on different instances.
func (s *CSRFStore) Validate(ctx context.Context, token string) (bool, error) {
	_, err := s.client.GetDel(ctx, csrfPrefix+token)
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		// Fail closed on store errors.
		return false, err
	}
	return true, nil
}

// NonceStore tracks consumed request nonces in Redis.
type NonceStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNonceStore creates a Redis-backed nonce store.
func NewNonceStore(client *redis.Client, ttl time.Duration) *NonceStore {
	return &NonceStore{client: client, ttl: ttl}
}

// CheckAndConsume inserts the nonce with SETNX. A failed insert means the
// nonce was already seen: a replay.
func (s *NonceStore) CheckAndConsume(ctx context.Context, nonce string) (bool, error) {
	ok, err := s.client.SetNX(ctx, noncePrefix+nonce, "1", s.ttl)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// RateLimiter counts requests per key with INCR and a window-long TTL armed
// atomically alongside it.
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a Redis-backed rate limiter.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow admits the request when the window counter has not exceeded max.
func (r *RateLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	count, err := r.client.IncrWindow(ctx, ratePrefix+key, window)
	if err != nil {
		return false, err
	}
	return count <= int64(max), nil
}
