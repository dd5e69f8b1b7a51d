// Package ratelimit implements a fixed-window request counter on top of the
// key-value store.
//
// Fixed window, not sliding: a burst near a window edge can briefly reach 2×
// the limit, in exchange for O(1) state per identity and no background
// sweeping — the counter's TTL is the window reset.
package ratelimit

import (
	"context"
	"time"

	"jobboard/listing-engine/internal/kvstore"
)

const keyPrefix = "rate:"

// Result is the outcome of one rate-limit check.
type Result struct {
	Allowed      bool
	Remaining    int
	ResetSeconds int
}

// Limiter checks per-identity fixed windows against the shared store.
type Limiter struct {
	kv *kvstore.Client
}

// New returns a Limiter using the given key-value client.
func New(kv *kvstore.Client) *Limiter {
	return &Limiter{kv: kv}
}

// Check increments the caller's window counter and decides admission.
// The first increment of a window establishes its expiry; allowed is
// count <= limit and ResetSeconds is the counter's remaining TTL, so all
// callers in the same window see a consistent countdown.
//
// On store failure the limiter fails open: an unreachable Redis must never
// itself become an outage.
func (l *Limiter) Check(ctx context.Context, identity string, limit int, window time.Duration) Result {
	key := keyPrefix + identity

	count, ok := l.kv.Increment(ctx, key)
	if !ok {
		return Result{Allowed: true, Remaining: limit, ResetSeconds: int(window.Seconds())}
	}

	if count == 1 {
		l.kv.Expire(ctx, key, window)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	reset := int(window.Seconds())
	if ttl, ok := l.kv.TTL(ctx, key); ok {
		reset = int(ttl.Seconds())
	}

	return Result{
		Allowed:      count <= int64(limit),
		Remaining:    remaining,
		ResetSeconds: reset,
	}
}
