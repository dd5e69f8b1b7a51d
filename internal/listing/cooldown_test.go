package listing_test

import (
	"testing"
	"time"

	"jobboard/listing-engine/internal/listing"
)

func ptrTime(t time.Time) *time.Time { return &t }

// ── StateOf ────────────────────────────────────────────────────────────────

func TestStateOf(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		boostedAt *time.Time
		want      listing.BoostState
	}{
		{"nil timestamp", nil, listing.StateNeverBoosted},
		{"boosted just now", ptrTime(now), listing.StateCooling},
		{"boosted 23h59m ago", ptrTime(now.Add(-23*time.Hour - 59*time.Minute)), listing.StateCooling},
		{"boosted exactly 24h ago", ptrTime(now.Add(-24 * time.Hour)), listing.StateBoostable},
		{"boosted 25h ago", ptrTime(now.Add(-25 * time.Hour)), listing.StateBoostable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := listing.StateOf(tc.boostedAt, now); got != tc.want {
				t.Errorf("StateOf = %s, want %s", got, tc.want)
			}
		})
	}
}

// ── Boostable ──────────────────────────────────────────────────────────────

// NeverBoosted and Boostable are identical for gating purposes.
func TestBoostable_GateBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if !listing.Boostable(nil, now) {
		t.Error("never-boosted listing must be boostable")
	}
	if listing.Boostable(ptrTime(now.Add(-23*time.Hour)), now) {
		t.Error("listing inside the 24h window must not be boostable")
	}
	if !listing.Boostable(ptrTime(now.Add(-24*time.Hour)), now) {
		t.Error("listing at exactly 24h must be boostable again")
	}
}

// ── CooldownRemaining ──────────────────────────────────────────────────────

func TestCooldownRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		boostedAt   *time.Time
		wantHours   int
		wantMinutes int
	}{
		{"just boosted", ptrTime(now), 24, 0},
		{"one second in", ptrTime(now.Add(-time.Second)), 23, 59},
		{"half way", ptrTime(now.Add(-12 * time.Hour)), 12, 0},
		{"23h59m in", ptrTime(now.Add(-23*time.Hour - 59*time.Minute)), 0, 1},
		{"23h59m30s in", ptrTime(now.Add(-23*time.Hour - 59*time.Minute - 30*time.Second)), 0, 0},
		{"cooldown elapsed", ptrTime(now.Add(-24 * time.Hour)), 0, 0},
		{"never boosted", nil, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, m := listing.CooldownRemaining(tc.boostedAt, now)
			if h != tc.wantHours || m != tc.wantMinutes {
				t.Errorf("CooldownRemaining = (%dh, %dm), want (%dh, %dm)",
					h, m, tc.wantHours, tc.wantMinutes)
			}
		})
	}
}

// Boosting at t and asking again within the same second leaves 23h left
// (floor of remaining), mirroring what callers display.
func TestCooldownRemaining_RightAfterBoost(t *testing.T) {
	boosted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := boosted.Add(500 * time.Millisecond)

	h, m := listing.CooldownRemaining(ptrTime(boosted), now)
	if h != 23 || m != 59 {
		t.Errorf("CooldownRemaining just after boost = (%dh, %dm), want (23h, 59m)", h, m)
	}
}
