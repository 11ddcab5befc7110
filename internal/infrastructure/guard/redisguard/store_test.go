package redisguard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/cache/redis"
)

func testClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { raw.Close() })
	return redis.NewClientFromRedis(raw), mr
}

func TestCSRFTokenSingleUse(t *testing.T) {
	ctx := context.Background()
	client, _ := testClient(t)
	store := NewCSRFStore(client, time.Hour)

	token, err := store.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if ok, err := store.Validate(ctx, token); err != nil || !ok {
		t.Fatalf("first Validate = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, err := store.Validate(ctx, token); err != nil || ok {
		t.Fatalf("second Validate = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestCSRFTokenExpires(t *testing.T) {
	ctx := context.Background()
	client, mr := testClient(t)
	store := NewCSRFStore(client, time.Minute)

	token, err := store.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if ok, _ := store.Validate(ctx, token); ok {
		t.Error("expired token validated")
	}
}

func TestNonceConsumedExactlyOnce(t *testing.T) {
	ctx := context.Background()
	client, _ := testClient(t)
	store := NewNonceStore(client, time.Hour)

	if fresh, err := store.CheckAndConsume(ctx, "n1"); err != nil || !fresh {
		t.Fatalf("first CheckAndConsume = (%v, %v), want (true, nil)", fresh, err)
	}
	if fresh, err := store.CheckAndConsume(ctx, "n1"); err != nil || fresh {
		t.Fatalf("replayed CheckAndConsume = (%v, %v), want (false, nil)", fresh, err)
	}
}

func TestNonceEvictedAfterWindow(t *testing.T) {
	ctx := context.Background()
	client, mr := testClient(t)
	store := NewNonceStore(client, time.Minute)

	store.CheckAndConsume(ctx, "n1")
	mr.FastForward(2 * time.Minute)

	if fresh, _ := store.CheckAndConsume(ctx, "n1"); !fresh {
		t.Error("nonce still blocked after eviction window")
	}
}

func TestRateLimiterBoundary(t *testing.T) {
	ctx := context.Background()
	client, mr := testClient(t)
	limiter := NewRateLimiter(client)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "review_u1", 3, time.Hour)
		if err != nil || !ok {
			t.Fatalf("request %d = (%v, %v), want allowed", i+1, ok, err)
		}
	}
	if ok, _ := limiter.Allow(ctx, "review_u1", 3, time.Hour); ok {
		t.Error("request over the limit allowed")
	}

	mr.FastForward(2 * time.Hour)
	if ok, _ := limiter.Allow(ctx, "review_u1", 3, time.Hour); !ok {
		t.Error("request denied after window reset")
	}
}

func TestRateLimiterWindowAlwaysHasTTL(t *testing.T) {
	ctx := context.Background()
	client, mr := testClient(t)
	limiter := NewRateLimiter(client)

	if _, err := limiter.Allow(ctx, "review_u1", 3, time.Hour); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ttl := mr.TTL("rate:review_u1"); ttl <= 0 {
		t.Fatalf("window ttl = %v, want positive", ttl)
	}

	// A counter orphaned without a TTL (say by a crash between increment
	// and expiry in an older scheme) is re-armed on the next increment
	// instead of limiting the key forever. PERSIST removes the expiry the
	// way real Redis leaves an orphan; miniredis's SetTTL(key, 0) instead
	// records a zero TTL entry, a state real Redis cannot be in, which
	// makes EXPIRE NX decline.
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer raw.Close()
	if err := raw.Persist(ctx, "rate:review_u1").Err(); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if _, err := limiter.Allow(ctx, "review_u1", 3, time.Hour); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ttl := mr.TTL("rate:review_u1"); ttl <= 0 {
		t.Errorf("orphaned window ttl = %v, want re-armed", ttl)
	}

	// Later increments do not extend a live window.
	mr.SetTTL("rate:review_u1", time.Minute)
	if _, err := limiter.Allow(ctx, "review_u1", 3, time.Hour); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ttl := mr.TTL("rate:review_u1"); ttl > time.Minute {
		t.Errorf("window ttl = %v, want untouched", ttl)
	}
}
