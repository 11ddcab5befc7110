package memory

import (
	"context"
	"testing"
	"time"
)

func TestCSRFTokenSingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewCSRFStore(time.Hour)

	token, err := store.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ok, err := store.Validate(ctx, token)
	if err != nil || !ok {
		t.Fatalf("first Validate = (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = store.Validate(ctx, token)
	if err != nil || ok {
		t.Fatalf("second Validate = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestCSRFTokenUnknownRejected(t *testing.T) {
	store := NewCSRFStore(time.Hour)
	if ok, _ := store.Validate(context.Background(), "never-issued"); ok {
		t.Error("unknown token validated")
	}
}

func TestCSRFTokenExpires(t *testing.T) {
	ctx := context.Background()
	store := NewCSRFStore(10 * time.Millisecond)

	token, err := store.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if ok, _ := store.Validate(ctx, token); ok {
		t.Error("expired token validated")
	}
}

func TestNonceConsumedExactlyOnce(t *testing.T) {
	ctx := context.Background()
	store := NewNonceStore(time.Hour)

	fresh, err := store.CheckAndConsume(ctx, "nonce-1")
	if err != nil || !fresh {
		t.Fatalf("first CheckAndConsume = (%v, %v), want (true, nil)", fresh, err)
	}

	fresh, err = store.CheckAndConsume(ctx, "nonce-1")
	if err != nil || fresh {
		t.Fatalf("replayed CheckAndConsume = (%v, %v), want (false, nil)", fresh, err)
	}

	// A different nonce is unaffected.
	if fresh, _ := store.CheckAndConsume(ctx, "nonce-2"); !fresh {
		t.Error("independent nonce rejected")
	}
}

func TestRateLimiterBoundary(t *testing.T) {
	ctx := context.Background()
	limiter := NewRateLimiter()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "review_user1", 3, time.Hour)
		if err != nil || !ok {
			t.Fatalf("request %d = (%v, %v), want allowed", i+1, ok, err)
		}
	}

	if ok, _ := limiter.Allow(ctx, "review_user1", 3, time.Hour); ok {
		t.Error("request over the limit allowed")
	}

	// Other keys are independent.
	if ok, _ := limiter.Allow(ctx, "review_user2", 3, time.Hour); !ok {
		t.Error("independent key denied")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	ctx := context.Background()
	limiter := NewRateLimiter()

	for i := 0; i < 2; i++ {
		limiter.Allow(ctx, "k", 2, 10*time.Millisecond)
	}
	if ok, _ := limiter.Allow(ctx, "k", 2, 10*time.Millisecond); ok {
		t.Fatal("over-limit request allowed before reset")
	}

	time.Sleep(20 * time.Millisecond)
	if ok, _ := limiter.Allow(ctx, "k", 2, 10*time.Millisecond); !ok {
		t.Error("request denied after window reset")
	}
}
