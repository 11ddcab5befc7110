// Package guard defines the contracts for the three independent anti-abuse
// stores: CSRF tokens, request nonces, and the rate limiter. Implementations
// may keep state in process memory (single instance) or in a shared atomic
// store; either way every guard fails closed on ambiguity.
package guard

import (
	"context"
	"time"
)

// CSRFStore issues and validates time-boxed CSRF tokens. Tokens are
// single-use: a successful Validate consumes the token.
type CSRFStore interface {
	// Issue mints a fresh token, valid for the store's TTL.
	Issue(ctx context.Context) (string, error)

	// Validate consumes the token, returning true exactly once per issued
	// token within its lifetime.
	Validate(ctx context.Context, token string) (bool, error)
}

// NonceStore tracks one-time request nonces supplied by clients.
type NonceStore interface {
	// CheckAndConsume returns true the first time a nonce is seen and
	// false for every repeat within the eviction window. Consumption is
	// irreversible, so callers must run it after cheaper gates and before
	// any side-effecting work.
	CheckAndConsume(ctx context.Context, nonce string) (bool, error)
}

// RateLimiter bounds requests per key within a sliding reset window.
type RateLimiter interface {
	// Allow records a request against key and reports whether it is
	// within max requests per window. The count resets once the stored
	// window expires.
	Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error)
}
