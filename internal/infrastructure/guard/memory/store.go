// Package memory implements the guard stores as single-process maps with
// lazy TTL eviction. Correct for one instance only; horizontal scaling needs
// the redis backend, since correctness depends on atomic check-and-insert.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CSRFStore is an in-memory set of valid CSRF tokens.
type CSRFStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
	ttl    time.Duration
}

// NewCSRFStore creates a CSRF store with the given token TTL.
func NewCSRFStore(ttl time.Duration) *CSRFStore {
	return &CSRFStore{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
	}
}

// Issue mints a fresh token and schedules its eviction.
func (s *CSRFStore) Issue(_ context.Context) (string, error) {
	token := uuid.New().String()

	s.mu.Lock()
	s.evictExpiredLocked()
	s.tokens[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return token, nil
}

// Validate consumes the token. Each issued token validates at most once.
func (s *CSRFStore) Validate(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false, nil
	}
	delete(s.tokens, token)
	if time.Now().After(expiry) {
		return false, nil
	}
	return true, nil
}

func (s *CSRFStore) evictExpiredLocked() {
	now := time.Now()
	for token, expiry := range s.tokens {
		if now.After(expiry) {
			delete(s.tokens, token)
		}
	}
}

// NonceStore is an in-memory seen-set of consumed request nonces.
type NonceStore struct {
	mu    sync.Mutex
	seen  map[string]time.Time // nonce -> eviction instant
	ttl   time.Duration
	sweep time.Time
}

// NewNonceStore creates a nonce store with the given eviction window.
func NewNonceStore(ttl time.Duration) *NonceStore {
	return &NonceStore{
		seen:  make(map[string]time.Time),
		ttl:   ttl,
		sweep: time.Now().Add(ttl),
	}
}

// CheckAndConsume returns true on first sight of a nonce appearing, false on
// any repeat within the eviction window.
func (s *NonceStore) CheckAndConsume(_ context.Context, nonce string) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.After(s.sweep) {
		for n, evictAt := range s.seen {
			if now.After(evictAt) {
				delete(s.seen, n)
			}
		}
		s.sweep = now.Add(s.ttl)
	}

	if evictAt, ok := s.seen[nonce]; ok && now.Before(evictAt) {
		return false, nil // replay
	}
	s.seen[nonce] = now.Add(s.ttl)
	return true, nil
}

// RateLimiter is a per-key reset-window counter.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*window
}

type window struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates an in-memory rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{entries: make(map[string]*window)}
}

// Allow records a request against key. The count resets to 1 whenever the
// current instant passes the stored reset instant.
func (r *RateLimiter) Allow(_ context.Context, key string, max int, windowDur time.Duration) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok || now.After(entry.resetAt) {
		r.entries[key] = &window{count: 1, resetAt: now.Add(windowDur)}
		return true, nil
	}

	if entry.count >= max {
		return false, nil
	}

	entry.count++
	return true, nil
}
