// Package cache implements the cache-aside layer in front of the relational
// store. It owns key naming, TTL policy, and invalidation-on-write.
//
// The cache is a performance optimization only: every caller must produce a
// correct result when the store is absent or wiped, so all operations are
// hit/miss — never error.
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"jobboard/listing-engine/internal/kvstore"
)

// Key namespaces. Disjoint from the rate limiter's "rate:" prefix, so the
// two components share a connection without coordination.
const (
	entityPrefix     = "entity:"
	collectionPrefix = "collection:"
	sessionPrefix    = "session:"
	activityPrefix   = "activity:"
)

// activityMaxLen caps every recent-activity list.
const activityMaxLen = 50

// Service is the cache-aside facade over the key-value store client.
type Service struct {
	kv            *kvstore.Client
	entityTTL     time.Duration
	collectionTTL time.Duration
}

// New constructs a Service with the given TTL policy. Individual entities
// cache longer than collections: detail pages change less often than
// filtered lists, and list freshness matters more.
func New(kv *kvstore.Client, entityTTL, collectionTTL time.Duration) *Service {
	return &Service{kv: kv, entityTTL: entityTTL, collectionTTL: collectionTTL}
}

// Fingerprint derives a deterministic collection cache key from a set of
// filter fields plus pagination. Fields are sorted by name so that callers
// assembling the same filter in a different order share one entry.
func Fingerprint(fields map[string]string, page, pageSize int) string {
	names := make([]string, 0, len(fields))
	for name, v := range fields {
		if v == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%s&", name, fields[name])
	}
	fmt.Fprintf(&b, "page=%d&size=%d", page, pageSize)
	return b.String()
}

// GetEntity looks up a single cached entity by ID into dest.
func (s *Service) GetEntity(ctx context.Context, id string, dest any) bool {
	return s.kv.GetInto(ctx, entityPrefix+id, dest)
}

// SetEntity writes a fetched entity through to the cache.
func (s *Service) SetEntity(ctx context.Context, id string, value any) {
	s.kv.Set(ctx, entityPrefix+id, value, s.entityTTL)
}

// InvalidateEntity drops a single entity entry after a write.
func (s *Service) InvalidateEntity(ctx context.Context, id string) {
	s.kv.Delete(ctx, entityPrefix+id)
}

// GetCollection looks up a cached collection page by fingerprint into dest.
func (s *Service) GetCollection(ctx context.Context, fingerprint string, dest any) bool {
	return s.kv.GetInto(ctx, collectionPrefix+fingerprint, dest)
}

// SetCollection writes a computed collection page through to the cache.
func (s *Service) SetCollection(ctx context.Context, fingerprint string, value any) {
	s.kv.Set(ctx, collectionPrefix+fingerprint, value, s.collectionTTL)
}

// InvalidateCollections drops every collection entry. Called after any
// create/update/delete/boost, because any filter/page combination may now
// be stale. Deliberately coarse: recomputing a page is cheap, tracking
// fine-grained dependency sets is not.
func (s *Service) InvalidateCollections(ctx context.Context) {
	s.kv.DeleteByPattern(ctx, collectionPrefix+"*")
}

// GetSession reads a cached session payload into dest.
func (s *Service) GetSession(ctx context.Context, id string, dest any) bool {
	return s.kv.GetInto(ctx, sessionPrefix+id, dest)
}

// SetSession caches a session payload with the given TTL.
func (s *Service) SetSession(ctx context.Context, id string, value any, ttl time.Duration) {
	s.kv.Set(ctx, sessionPrefix+id, value, ttl)
}

// RecordActivity appends an entry to a caller's bounded recent-activity list.
func (s *Service) RecordActivity(ctx context.Context, id string, entry any) {
	s.kv.PushActivity(ctx, activityPrefix+id, entry, activityMaxLen)
}

// RecentActivity returns the raw entries of a caller's activity list,
// newest first.
func (s *Service) RecentActivity(ctx context.Context, id string) []string {
	return s.kv.RecentActivity(ctx, activityPrefix+id, activityMaxLen)
}
