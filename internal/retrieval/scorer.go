// Package retrieval ranks golden-corpus candidates against an incoming
// request by composing semantic similarity with methodology, industry,
// quality, and annotation signals under resolved weights.
package retrieval

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/annotation"
	"github.com/sells-group/golden-retrieval/internal/compat"
	"github.com/sells-group/golden-retrieval/internal/model"
)

// DefaultVerificationBoost is added to the composite score of verified
// candidates. It is additive on purpose: it can push the composite above
// 1.0 so verified candidates outrank unverified ones in the common case.
const DefaultVerificationBoost = 0.5

// Scorer composes the final ranking score for a single candidate.
type Scorer struct {
	matcher    *compat.Matcher
	aggregator *annotation.Aggregator
	boost      float64
}

// NewScorer creates a Scorer. A negative boost is treated as zero.
func NewScorer(matcher *compat.Matcher, aggregator *annotation.Aggregator, boost float64) *Scorer {
	if boost < 0 {
		boost = 0
	}
	return &Scorer{matcher: matcher, aggregator: aggregator, boost: boost}
}

// Score derives the five sub-scores and the weighted composite for one
// candidate. The raw embedding distance is converted to a similarity with
// 1 - distance, clamped to [0,1] to absorb distance metrics that can exceed
// 1. Annotation lookups that degrade fall back to the neutral default and
// scoring continues.
func (s *Scorer) Score(
	ctx context.Context,
	cand model.Candidate,
	distance float64,
	methodologies []string,
	industry string,
	w model.ScoringWeights,
) model.ScoredCandidate {
	similarity := clamp01(1.0 - distance)
	methodologyScore := s.matcher.MethodologyMatch(cand.Methodologies, methodologies)
	industryScore := s.matcher.IndustryMatch(cand.Industry, industry)
	quality := cand.QualityOrDefault()

	agg, ok := s.aggregator.Aggregate(ctx, cand.ID)
	if !ok {
		zap.L().Debug("retrieval: annotation score degraded to neutral",
			zap.String("candidate_id", cand.ID),
		)
	}
	// Rescale the [1,5] annotation mean into [0,1].
	annotationScore := (agg - 1.0) / 4.0

	composite := w.Semantic*similarity +
		w.Methodology*methodologyScore +
		w.Industry*industryScore +
		w.Quality*quality +
		w.Annotation*annotationScore
	if cand.Verified {
		composite += s.boost
	}

	return model.ScoredCandidate{
		Candidate:        cand,
		Similarity:       similarity,
		MethodologyScore: methodologyScore,
		IndustryScore:    industryScore,
		QualityScore:     quality,
		AnnotationScore:  annotationScore,
		Composite:        composite,
	}
}

// Rank sorts scored candidates into their final order: composite
// descending, ties broken by verified first, then by corpus insertion
// order. The result is a total order, so equal inputs always produce the
// same sequence.
func Rank(scored []model.ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Composite != b.Composite {
			return a.Composite > b.Composite
		}
		if a.Candidate.Verified != b.Candidate.Verified {
			return a.Candidate.Verified
		}
		return a.Candidate.Position < b.Candidate.Position
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
