package ratelimit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"jobboard/listing-engine/internal/kvstore"
	"jobboard/listing-engine/internal/ratelimit"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newLimiter(t *testing.T) (*ratelimit.Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return ratelimit.New(kvstore.New(rdb, quiet)), mr
}

// remaining is non-increasing across a window, and allowed flips exactly
// when the count exceeds the limit — never earlier.
func TestCheck_MonotonicWithinWindow(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()
	const limit = 5

	prevRemaining := limit
	for call := 1; call <= limit+3; call++ {
		res := limiter.Check(ctx, "203.0.113.7", limit, time.Minute)

		if res.Remaining > prevRemaining {
			t.Errorf("call %d: remaining %d increased from %d", call, res.Remaining, prevRemaining)
		}
		prevRemaining = res.Remaining

		wantAllowed := call <= limit
		if res.Allowed != wantAllowed {
			t.Errorf("call %d: allowed = %v, want %v", call, res.Allowed, wantAllowed)
		}
	}
}

func TestCheck_RemainingCountsDown(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	for call := 1; call <= 3; call++ {
		res := limiter.Check(ctx, "id", 3, time.Minute)
		if want := 3 - call; res.Remaining != want {
			t.Errorf("call %d: remaining = %d, want %d", call, res.Remaining, want)
		}
	}
	if res := limiter.Check(ctx, "id", 3, time.Minute); res.Remaining != 0 {
		t.Errorf("over the limit remaining = %d, want 0 (never negative)", res.Remaining)
	}
}

func TestCheck_IdentitiesAreIndependent(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		limiter.Check(ctx, "first", 3, time.Minute)
	}
	if res := limiter.Check(ctx, "second", 3, time.Minute); !res.Allowed || res.Remaining != 2 {
		t.Errorf("fresh identity got %+v, want allowed with remaining 2", res)
	}
}

// The counter's TTL is the window reset: once it elapses, the identity
// starts a fresh window with the full limit. No explicit reset path exists.
func TestCheck_WindowResetsViaTTL(t *testing.T) {
	limiter, mr := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		limiter.Check(ctx, "id", 2, 30*time.Second)
	}
	mr.FastForward(31 * time.Second)

	res := limiter.Check(ctx, "id", 2, 30*time.Second)
	if !res.Allowed || res.Remaining != 1 {
		t.Errorf("after window expiry got %+v, want allowed with remaining 1", res)
	}
}

func TestCheck_ResetSecondsTracksTTL(t *testing.T) {
	limiter, mr := newLimiter(t)
	ctx := context.Background()

	first := limiter.Check(ctx, "id", 10, time.Minute)
	if first.ResetSeconds != 60 {
		t.Errorf("first call ResetSeconds = %d, want 60", first.ResetSeconds)
	}

	mr.FastForward(20 * time.Second)
	later := limiter.Check(ctx, "id", 10, time.Minute)
	if later.ResetSeconds != 40 {
		t.Errorf("ResetSeconds after 20s = %d, want 40 (consistent countdown)", later.ResetSeconds)
	}
}

// A dead store must never turn the limiter into an outage: fail open with
// the full limit.
func TestCheck_FailsOpenWhenStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	limiter := ratelimit.New(kvstore.New(rdb, quiet))
	res := limiter.Check(context.Background(), "id", 7, time.Minute)

	if !res.Allowed || res.Remaining != 7 {
		t.Errorf("store down got %+v, want allowed with remaining 7", res)
	}
}
