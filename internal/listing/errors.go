package listing

import "fmt"

// Sentinel errors for the authoritative-store taxonomy. Advisory-store
// (Redis) failures never surface as errors — they degrade to cache misses
// and rate-limit allows inside kvstore.
var (
	// ErrNotFound is returned when a listing is missing.
	ErrNotFound = fmt.Errorf("listing not found")

	// ErrOwnerNotFound is returned when a listing's owner relation is broken.
	ErrOwnerNotFound = fmt.Errorf("listing owner not found")

	// ErrDuplicateSubmission is returned when a new listing nearly matches an
	// existing one by the same owner. It deliberately names no listing, so the
	// caller cannot probe which one matched.
	ErrDuplicateSubmission = fmt.Errorf("a very similar listing already exists")

	// ErrListingLimitExceeded is returned once the per-owner cap is reached.
	ErrListingLimitExceeded = fmt.Errorf("listing limit per owner exceeded")
)

// CooldownError reports a boost attempt inside the cooldown window, with the
// remaining time broken down for display.
type CooldownError struct {
	HoursLeft   int
	MinutesLeft int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("boost cooldown active: %dh %dm left", e.HoursLeft, e.MinutesLeft)
}

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
