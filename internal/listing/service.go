package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"jobboard/listing-engine/internal/cache"
	"jobboard/listing-engine/internal/kvstore"
)

// MaxListingsPerOwner caps how many listings one owner may hold. Enforced
// before duplicate detection, which also bounds the detector's O(n) scan.
const MaxListingsPerOwner = 10

// BoostedChannel is the pub/sub channel notified after a successful boost.
const BoostedChannel = "EVENT_LISTING_BOOSTED"

const defaultPageSize = 10

// Service orchestrates the engine: cache-aside reads, validated writes with
// invalidation, the boost cooldown, and duplicate detection.
//
// Error asymmetry, the central invariant: Repository errors always propagate;
// key-value store failures never do — the cache and publisher degrade inside
// kvstore and the result stays correct, only slower.
type Service struct {
	repo  Repository
	cache *cache.Service
	kv    *kvstore.Client
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests to pin cooldown
// boundaries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a configured Service. A nil logger falls back to
// slog.Default().
func NewService(repo Repository, c *cache.Service, kv *kvstore.Client, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{repo: repo, cache: c, kv: kv, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one ranked, paginated view of the filtered listings,
// cache-aside by filter fingerprint.
//
// The salary bound is applied in memory after the relational fetch (the
// stored field is free text), so a page combined with a salary filter can
// hold fewer than pageSize items even when more qualify; no re-query is
// performed. TotalCount likewise reflects the relational filter only.
func (s *Service) List(ctx context.Context, f Filter, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	fp := fingerprint(f, page, pageSize)

	var cached Page
	if s.cache.GetCollection(ctx, fp, &cached) {
		return &cached, nil
	}

	total, err := s.repo.CountListings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}

	items, err := s.repo.FindListings(ctx, f, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}

	if f.MinSalary != nil {
		items = FilterBySalary(items, *f.MinSalary)
	}

	result := &Page{
		Items:      items,
		TotalCount: total,
		PageCount:  PageCount(total, pageSize),
	}

	s.cache.SetCollection(ctx, fp, result)
	return result, nil
}

// Get returns a single listing, cache-aside by ID.
func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	var cached Listing
	if s.cache.GetEntity(ctx, id, &cached) {
		return &cached, nil
	}

	l, err := s.repo.FindListingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetEntity(ctx, id, l)
	return l, nil
}

// Create validates and persists a new listing: per-owner cap first, then the
// duplicate scan against the owner's existing listings, then the insert.
// Every collection page may have shifted, so all of them are invalidated.
func (s *Service) Create(ctx context.Context, n NewListing) (*Listing, error) {
	if n.Title == "" || n.Description == "" {
		return nil, &ValidationError{Msg: "title and description are required"}
	}
	if n.OwnerID == "" {
		return nil, &ValidationError{Msg: "owner is required"}
	}

	count, err := s.repo.CountListingsByOwner(ctx, n.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("count owner listings: %w", err)
	}
	if count >= MaxListingsPerOwner {
		return nil, ErrListingLimitExceeded
	}

	existing, err := s.repo.FindListingsByOwner(ctx, n.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("find owner listings: %w", err)
	}
	if IsDuplicate(TitleDescription{Title: n.Title, Description: n.Description}, existing) {
		return nil, ErrDuplicateSubmission
	}

	created, err := s.repo.InsertListing(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}

	s.cache.InvalidateCollections(ctx)
	s.cache.RecordActivity(ctx, n.OwnerID, map[string]string{
		"action":    "created",
		"listingId": created.ID,
		"at":        s.now().UTC().Format(time.RFC3339),
	})

	return created, nil
}

// Update replaces the caller-editable fields of an owned listing and
// invalidates the affected cache entries.
func (s *Service) Update(ctx context.Context, id, ownerID string, n NewListing) (*Listing, error) {
	if n.Title == "" || n.Description == "" {
		return nil, &ValidationError{Msg: "title and description are required"}
	}

	updated, err := s.repo.UpdateListing(ctx, id, ownerID, n)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEntity(ctx, id)
	s.cache.InvalidateCollections(ctx)
	return updated, nil
}

// Delete removes an owned listing and invalidates the affected cache entries.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.DeleteListing(ctx, id, ownerID); err != nil {
		return err
	}

	s.cache.InvalidateEntity(ctx, id)
	s.cache.InvalidateCollections(ctx)
	return nil
}

// Boost marks a listing as recently promoted, gated by the rolling 24h
// cooldown. Two concurrent boosts can both pass the gate before either
// writes; the source system accepts that rare double bump and so does this
// one (no transactional guard).
func (s *Service) Boost(ctx context.Context, id, callerID string) (*Listing, error) {
	l, err := s.repo.FindListingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Owner.ID == "" {
		return nil, ErrOwnerNotFound
	}

	now := s.now()
	if !Boostable(l.BoostedAt, now) {
		hours, minutes := CooldownRemaining(l.BoostedAt, now)
		return nil, &CooldownError{HoursLeft: hours, MinutesLeft: minutes}
	}

	updated, err := s.repo.UpdateListingBoostedAt(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("update boostedAt: %w", err)
	}

	// Re-ranking may move the listing on any page.
	s.cache.InvalidateEntity(ctx, id)
	s.cache.InvalidateCollections(ctx)

	s.kv.Publish(ctx, BoostedChannel, map[string]string{
		"type":      BoostedChannel,
		"listingId": id,
		"callerId":  callerID,
		"boostedAt": now.UTC().Format(time.RFC3339),
	})

	return updated, nil
}

// RecentActivity exposes a caller's bounded activity trail from the cache
// layer (best-effort, may be empty after a store outage).
func (s *Service) RecentActivity(ctx context.Context, ownerID string) []string {
	return s.cache.RecentActivity(ctx, ownerID)
}

// fingerprint flattens a filter into the deterministic collection cache key.
func fingerprint(f Filter, page, pageSize int) string {
	fields := map[string]string{
		"category": f.CategoryID,
		"location": f.LocationID,
	}
	if f.MinSalary != nil {
		fields["minSalary"] = strconv.Itoa(*f.MinSalary)
	}
	if f.Shuttle != nil {
		fields["shuttle"] = strconv.FormatBool(*f.Shuttle)
	}
	if f.Meals != nil {
		fields["meals"] = strconv.FormatBool(*f.Meals)
	}
	return cache.Fingerprint(fields, page, pageSize)
}
