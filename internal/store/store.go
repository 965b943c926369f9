// Package store persists the golden corpus: candidates with embeddings,
// their annotations, and scoring-weight configuration records.
package store

import (
	"context"

	"github.com/sells-group/golden-retrieval/internal/model"
	"github.com/sells-group/golden-retrieval/internal/weights"
)

// Store defines the persistence interface for the golden corpus.
type Store interface {
	// Candidates
	SimilaritySearch(ctx context.Context, tier model.Tier, embedding []float32, filter model.SearchFilter, limit int) ([]model.SearchHit, error)
	GetCandidate(ctx context.Context, id string) (*model.Candidate, error)
	InsertCandidate(ctx context.Context, c *model.Candidate) error
	IncrementUsage(ctx context.Context, candidateID string) error

	// Annotations
	AnnotationsFor(ctx context.Context, candidateID string) ([]model.Annotation, error)
	InsertAnnotation(ctx context.Context, a *model.Annotation) error

	// Weight configuration
	GetWeights(ctx context.Context, scope weights.Scope, key string) (*model.ScoringWeights, error)
	SetWeights(ctx context.Context, scope weights.Scope, key string, w model.ScoringWeights) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
