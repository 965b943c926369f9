package labels

import (
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultFuzzyThreshold is the minimum similarity ratio FuzzyMatch requires
// before it accepts a candidate.
const DefaultFuzzyThreshold = 0.85

// ratioParams holds the default edit costs. Read-only after init.
var ratioParams = levenshtein.NewParams()

// Ratio returns an edit-distance-normalized similarity in [0,1] between two
// strings, compared case-insensitively. Identical strings yield 1.0.
func Ratio(a, b string) float64 {
	return levenshtein.Similarity(
		strings.ToLower(strings.TrimSpace(a)),
		strings.ToLower(strings.TrimSpace(b)),
		ratioParams,
	)
}

// FuzzyMatch normalizes the query and each candidate, then returns the first
// candidate whose similarity ratio to the query is highest and at or above
// threshold. When no candidate qualifies, the normalized query is returned
// unchanged. A threshold <= 0 falls back to DefaultFuzzyThreshold.
//
// Ties below the best ratio are impossible by construction; ties at the best
// ratio resolve to the earliest candidate, keeping the result deterministic.
func FuzzyMatch(label string, candidates []string, threshold float64) string {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	query := Normalize(label)
	best := ""
	bestRatio := 0.0
	for _, cand := range candidates {
		r := Ratio(query, Normalize(cand))
		if r > bestRatio {
			best = cand
			bestRatio = r
		}
	}
	if best != "" && bestRatio >= threshold {
		return best
	}
	return query
}
