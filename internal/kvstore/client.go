// Package kvstore wraps the Redis connection behind the small set of
// primitives the engine needs: get/set-with-ttl/delete/pattern-delete/
// increment/expire/publish plus a bounded recent-activity list.
//
// The store is advisory. Every operation degrades instead of failing the
// request: reads report a miss, writes report false, counters report zero.
// Callers that need the fail-open/fail-closed distinction (cache vs rate
// limiter) build it on top of these primitives.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// opTimeout bounds every store round-trip so a hung connection degrades
// to a miss instead of stalling the request.
const opTimeout = 3 * time.Second

// Client is an explicitly constructed wrapper around one Redis connection.
// It is owned by the composition root and injected everywhere it is used.
type Client struct {
	rdb *redis.Client
	log *slog.Logger
}

// New returns a Client using the given connection and logger.
// A nil logger falls back to slog.Default().
func New(rdb *redis.Client, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{rdb: rdb, log: log}
}

// Get fetches a key and deserializes its JSON value into a generic value.
// A value that is not valid JSON is returned verbatim as a string.
// Returns (nil, false) on miss or store failure.
func (c *Client) Get(ctx context.Context, key string) (any, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("kvstore get failed", "key", key, "err", err)
		}
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		// Plain-text values written by other components are tolerated.
		return raw, true
	}
	return v, true
}

// GetInto fetches a key and deserializes its JSON value into dest.
// Corrupt values are treated as a miss.
func (c *Client) GetInto(ctx context.Context, key string, dest any) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("kvstore get failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("kvstore value corrupt, treating as miss", "key", key, "err", err)
		return false
	}
	return true
}

// Set serializes value as JSON and stores it under key with the given TTL.
// Returns false (after logging) on serialization or store failure.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("kvstore marshal failed", "key", key, "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.log.Warn("kvstore set failed", "key", key, "err", err)
		return false
	}
	return true
}

// Delete removes one or more keys.
func (c *Client) Delete(ctx context.Context, keys ...string) bool {
	if len(keys) == 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("kvstore delete failed", "keys", len(keys), "err", err)
		return false
	}
	return true
}

// DeleteByPattern removes every key matching pattern (e.g. "collection:*")
// by SCAN-and-DEL. Coarse by design: enumerating a prefix is cheap compared
// to tracking fine-grained dependency sets.
func (c *Client) DeleteByPattern(ctx context.Context, pattern string) int {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var deleted int
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("kvstore pattern delete failed", "key", iter.Val(), "err", err)
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("kvstore scan failed", "pattern", pattern, "err", err)
	}
	return deleted
}

// Increment atomically increments a counter key and returns the new value.
// Returns (0, false) on store failure.
func (c *Client) Increment(ctx context.Context, key string) (int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		c.log.Warn("kvstore incr failed", "key", key, "err", err)
		return 0, false
	}
	return n, true
}

// Expire sets the TTL of an existing key.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		c.log.Warn("kvstore expire failed", "key", key, "err", err)
		return false
	}
	return true
}

// TTL returns the remaining lifetime of a key, or (0, false) when the key
// has no expiry, does not exist, or the store is unreachable.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	d, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		c.log.Warn("kvstore ttl failed", "key", key, "err", err)
		return 0, false
	}
	if d < 0 {
		return 0, false
	}
	return d, true
}

// Publish sends a JSON-serialized message on a pub/sub channel. Non-fatal:
// subscribers are notification consumers, never part of request correctness.
func (c *Client) Publish(ctx context.Context, channel string, message any) bool {
	payload, err := json.Marshal(message)
	if err != nil {
		c.log.Warn("kvstore publish marshal failed", "channel", channel, "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		c.log.Warn("kvstore publish failed", "channel", channel, "err", err)
		return false
	}
	return true
}

// PushActivity prepends an entry to a bounded activity list and trims it
// to maxLen. The list shares the advisory-store degradation rules.
func (c *Client) PushActivity(ctx context.Context, key string, entry any, maxLen int64) bool {
	payload, err := json.Marshal(entry)
	if err != nil {
		c.log.Warn("kvstore activity marshal failed", "key", key, "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := c.rdb.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, maxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("kvstore activity push failed", "key", key, "err", err)
		return false
	}
	return true
}

// RecentActivity returns up to maxLen raw entries from an activity list,
// newest first. Returns nil on store failure.
func (c *Client) RecentActivity(ctx context.Context, key string, maxLen int64) []string {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	entries, err := c.rdb.LRange(ctx, key, 0, maxLen-1).Result()
	if err != nil {
		c.log.Warn("kvstore activity read failed", "key", key, "err", err)
		return nil
	}
	return entries
}
