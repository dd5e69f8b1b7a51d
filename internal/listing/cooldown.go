package listing

import "time"

// Boost cooldown state machine.
//
// State graph per listing, derived entirely from one timestamp:
//
//	NeverBoosted ──boost──► Cooling ──24h──► Boostable ──boost──► Cooling …
//
// No separate cooldown ledger exists: the state is a pure function of
// boostedAt, which keeps it trivially consistent with the persisted entity.

// CooldownPeriod is the rolling window during which a listing cannot be
// boosted again.
const CooldownPeriod = 24 * time.Hour

// BoostState classifies a listing for boost gating.
type BoostState string

const (
	// StateNeverBoosted means boostedAt is unset.
	StateNeverBoosted BoostState = "NEVER_BOOSTED"
	// StateCooling means the last boost is less than CooldownPeriod old.
	StateCooling BoostState = "COOLING"
	// StateBoostable means the cooldown has elapsed. For gating purposes it
	// is identical to StateNeverBoosted.
	StateBoostable BoostState = "BOOSTABLE"
)

// StateOf returns the boost state of a listing at the given instant.
func StateOf(boostedAt *time.Time, now time.Time) BoostState {
	switch {
	case boostedAt == nil:
		return StateNeverBoosted
	case now.Sub(*boostedAt) < CooldownPeriod:
		return StateCooling
	default:
		return StateBoostable
	}
}

// Boostable reports whether a boost is permitted at the given instant.
func Boostable(boostedAt *time.Time, now time.Time) bool {
	return StateOf(boostedAt, now) != StateCooling
}

// CooldownRemaining returns the time left until the listing becomes
// boostable again, broken down for display. Zero values when not cooling.
func CooldownRemaining(boostedAt *time.Time, now time.Time) (hoursLeft, minutesLeft int) {
	if StateOf(boostedAt, now) != StateCooling {
		return 0, 0
	}
	remaining := CooldownPeriod - now.Sub(*boostedAt)
	hoursLeft = int(remaining / time.Hour)
	minutesLeft = int((remaining % time.Hour) / time.Minute)
	return hoursLeft, minutesLeft
}
