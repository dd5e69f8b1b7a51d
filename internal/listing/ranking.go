package listing

import (
	"sort"
	"strings"
	"unicode"
)

// Ranking precedence, in this exact order:
//
//  1. premium owners first
//  2. boostedAt descending, never-boosted last
//  3. createdAt descending
//
// The repository pushes the same precedence into ORDER BY; Sort exists so the
// ordering is also expressible (and testable) without a database.

// Less reports whether a should rank strictly above b.
func Less(a, b Listing) bool {
	ap, bp := a.Owner.IsPremium(), b.Owner.IsPremium()
	if ap != bp {
		return ap
	}

	switch {
	case a.BoostedAt != nil && b.BoostedAt == nil:
		return true
	case a.BoostedAt == nil && b.BoostedAt != nil:
		return false
	case a.BoostedAt != nil && b.BoostedAt != nil && !a.BoostedAt.Equal(*b.BoostedAt):
		return a.BoostedAt.After(*b.BoostedAt)
	}

	return a.CreatedAt.After(b.CreatedAt)
}

// Sort orders listings in place by the ranking precedence. The sort is
// stable so equally-ranked listings keep their insertion order.
func Sort(items []Listing) {
	sort.SliceStable(items, func(i, j int) bool { return Less(items[i], items[j]) })
}

// ParseLeadingSalary extracts the leading numeric run from a free-text
// salary string, e.g. "60 per hour" -> 60. Returns false when the text does
// not start with a digit (after trimming whitespace).
func ParseLeadingSalary(s string) (int, bool) {
	s = strings.TrimSpace(s)
	var n, digits int
	for _, r := range s {
		if !unicode.IsDigit(r) {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	return n, digits > 0
}

// FilterBySalary keeps listings whose parsed salary is >= min. Listings with
// no leading numeric run are excluded. Applied in memory after the relational
// fetch (the stored field is free text), so a page can come back with fewer
// than pageSize items even when more qualifying listings exist — a known
// limitation, deliberately not patched with a re-query.
func FilterBySalary(items []Listing, min int) []Listing {
	kept := make([]Listing, 0, len(items))
	for _, it := range items {
		if n, ok := ParseLeadingSalary(it.Salary); ok && n >= min {
			kept = append(kept, it)
		}
	}
	return kept
}

// PageCount computes ceil(totalCount / pageSize).
func PageCount(totalCount, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
