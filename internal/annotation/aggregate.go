// Package annotation reduces per-candidate human and AI quality ratings to
// a single scalar used by the ranking engine.
package annotation

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/model"
)

// NeutralScore is returned when a candidate has no annotations. It sits at
// the midpoint of the [1,5] rating scale so un-annotated candidates are not
// biased for or against relative to an average annotated one.
const NeutralScore = 3.0

// Store is the read side of the annotation corpus.
type Store interface {
	AnnotationsFor(ctx context.Context, candidateID string) ([]model.Annotation, error)
}

// Aggregator reduces a candidate's annotations to one score in [1,5].
type Aggregator struct {
	store Store
}

// NewAggregator creates an Aggregator backed by the given store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate returns the mean of per-annotation pillar means for a candidate.
// The second return value is false when the score degraded to NeutralScore
// abnormally (malformed candidate ID or store failure) so the caller can log
// it; a candidate with simply no annotations yet returns (NeutralScore, true).
// Aggregate never returns an error: ranking must proceed for the remaining
// candidates.
//
// A pillar rating outside [1,5] means the annotation store violated its
// contract; that is a programmer error and panics.
func (a *Aggregator) Aggregate(ctx context.Context, candidateID string) (float64, bool) {
	if _, err := uuid.Parse(candidateID); err != nil {
		return NeutralScore, false
	}

	anns, err := a.store.AnnotationsFor(ctx, candidateID)
	if err != nil {
		return NeutralScore, false
	}
	if len(anns) == 0 {
		return NeutralScore, true
	}

	var sum float64
	for _, ann := range anns {
		if err := ann.Validate(); err != nil {
			zap.L().Error("annotation: store returned invalid pillar rating",
				zap.String("candidate_id", candidateID),
				zap.Error(err),
			)
			panic(err)
		}
		sum += ann.PillarMean()
	}
	return sum / float64(len(anns)), true
}
