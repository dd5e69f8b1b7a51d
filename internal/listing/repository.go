package listing

import (
	"context"
	"time"
)

// Repository is the narrow relational-store contract the engine consumes.
// Implementations return ErrNotFound / ErrOwnerNotFound from this package;
// any other error means the authoritative store failed and always propagates.
type Repository interface {
	// CountListings counts listings matching the relational filter fields
	// (the in-memory salary filter is not part of the contract).
	CountListings(ctx context.Context, f Filter) (int, error)

	// FindListings returns one ranked window of matching listings with
	// owner, location and category embedded.
	FindListings(ctx context.Context, f Filter, skip, take int) ([]Listing, error)

	// FindListingByID returns a single listing with the same joins.
	FindListingByID(ctx context.Context, id string) (*Listing, error)

	// UpdateListingBoostedAt persists a new boost timestamp and returns the
	// updated listing.
	UpdateListingBoostedAt(ctx context.Context, id string, boostedAt time.Time) (*Listing, error)

	// FindListingsByOwner returns the title/description projection of an
	// owner's listings for duplicate detection.
	FindListingsByOwner(ctx context.Context, ownerID string) ([]TitleDescription, error)

	// CountListingsByOwner counts an owner's listings for the per-owner cap.
	CountListingsByOwner(ctx context.Context, ownerID string) (int, error)

	// InsertListing persists a new listing and returns it with joins.
	InsertListing(ctx context.Context, n NewListing) (*Listing, error)

	// UpdateListing replaces the caller-editable fields of an owned listing.
	UpdateListing(ctx context.Context, id, ownerID string, n NewListing) (*Listing, error)

	// DeleteListing removes an owned listing.
	DeleteListing(ctx context.Context, id, ownerID string) error
}
