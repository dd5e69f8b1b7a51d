package listing

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// SimilarityThreshold is the score BOTH title and description must exceed
// against the same existing listing for a submission to count as a
// duplicate. Requiring both fields avoids false positives among short,
// generic job titles.
const SimilarityThreshold = 0.9

// normalize lowercases and collapses all whitespace runs to single spaces
// so that formatting differences do not hide a near-duplicate.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Similarity scores two strings in [0, 1] after normalization.
func Similarity(a, b string) float64 {
	return strutil.Similarity(normalize(a), normalize(b), metrics.NewLevenshtein())
}

// IsDuplicate scans a caller's existing listings and reports whether the
// candidate nearly matches any one of them. O(n) over the caller's own
// listings only, bounded by the per-owner cap enforced before this check.
func IsDuplicate(candidate TitleDescription, existing []TitleDescription) bool {
	for _, e := range existing {
		if Similarity(candidate.Title, e.Title) > SimilarityThreshold &&
			Similarity(candidate.Description, e.Description) > SimilarityThreshold {
			return true
		}
	}
	return false
}
