package retrieval

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/golden-retrieval/internal/model"
	"github.com/sells-group/golden-retrieval/internal/weights"
	"github.com/sells-group/golden-retrieval/pkg/embeddings"
)

const (
	// defaultOverfetch controls how many candidates beyond the requested
	// limit are pulled from the corpus store for re-ranking.
	defaultOverfetch = 3

	defaultLimit            = 5
	defaultScoreConcurrency = 8
)

// ErrEmbedding marks a retrieve call that failed before ranking because the
// query could not be embedded. Callers check it with errors.Is / eris.Is.
var ErrEmbedding = eris.New("retrieval: embedding provider failed")

// CorpusStore is the slice of the corpus store the retriever needs.
type CorpusStore interface {
	// SimilaritySearch returns up to limit candidates for a tier, ordered by
	// verification status descending then raw distance ascending.
	SimilaritySearch(ctx context.Context, tier model.Tier, embedding []float32, filter model.SearchFilter, limit int) ([]model.SearchHit, error)
	// IncrementUsage bumps a candidate's usage counter after selection.
	IncrementUsage(ctx context.Context, candidateID string) error
}

// Request describes one retrieval call against a single corpus tier.
type Request struct {
	Tier          model.Tier
	Query         string
	Methodologies []string
	Industry      string
	Limit         int
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithOverfetch overrides the candidate overfetch factor.
func WithOverfetch(factor int) Option {
	return func(r *Retriever) {
		if factor > 0 {
			r.overfetch = factor
		}
	}
}

// WithScoreConcurrency caps concurrent per-candidate enrichment calls.
func WithScoreConcurrency(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// Retriever is the facade over the ranking engine: it embeds the query,
// pulls a similarity-ordered candidate superset from the corpus store,
// re-ranks it with the multi-factor scorer, and returns the top N.
type Retriever struct {
	store       CorpusStore
	embedder    embeddings.Provider
	scorer      *Scorer
	resolver    *weights.Resolver
	overfetch   int
	concurrency int
}

// NewRetriever wires the retrieval facade.
func NewRetriever(store CorpusStore, embedder embeddings.Provider, scorer *Scorer, resolver *weights.Resolver, opts ...Option) *Retriever {
	r := &Retriever{
		store:       store,
		embedder:    embedder,
		scorer:      scorer,
		resolver:    resolver,
		overfetch:   defaultOverfetch,
		concurrency: defaultScoreConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns the top candidates for the request, ranked per the
// multi-factor scorer. An empty corpus or a corpus-store failure yields an
// empty result and no error: downstream generation must tolerate an empty
// precedent set. An embedding failure returns ErrEmbedding, since the
// request cannot be meaningfully ranked at all.
//
// Usage counters are incremented only for the final truncated result, only
// on the pairs tier, and only after a full uncancelled completion.
func (r *Retriever) Retrieve(ctx context.Context, req Request) ([]model.ScoredCandidate, error) {
	if !req.Tier.Valid() {
		return nil, eris.Errorf("retrieval: unknown tier %q", req.Tier)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	log := zap.L().With(
		zap.String("tier", string(req.Tier)),
		zap.Int("limit", limit),
	)

	queryEmbedding, err := r.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	filter := model.SearchFilter{
		Methodologies: req.Methodologies,
		Industry:      req.Industry,
	}
	hits, err := r.store.SimilaritySearch(ctx, req.Tier, queryEmbedding, filter, limit*r.overfetch)
	if err != nil {
		log.Warn("retrieval: similarity search failed, returning empty result", zap.Error(err))
		return []model.ScoredCandidate{}, nil
	}
	if len(hits) == 0 {
		log.Debug("retrieval: no candidates for query")
		return []model.ScoredCandidate{}, nil
	}

	resolved := r.resolver.Resolve(ctx, model.WeightContext{
		Methodologies: req.Methodologies,
		Industry:      req.Industry,
	})

	// Annotation lookups are I/O-bound, so candidates are scored
	// concurrently and reassembled by index; Rank provides final-order
	// stability regardless of completion order.
	scored := make([]model.ScoredCandidate, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, hit := range hits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scored[i] = r.scorer.Score(gctx, hit.Candidate, hit.Distance, req.Methodologies, req.Industry, resolved)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "retrieval: score candidates")
	}

	Rank(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	// Selection side effect: bump usage for returned golden pairs. Skipped
	// entirely on cancellation so partial work never mutates the corpus.
	if req.Tier == model.TierPairs && ctx.Err() == nil {
		for _, sc := range scored {
			if err := r.store.IncrementUsage(ctx, sc.Candidate.ID); err != nil {
				log.Warn("retrieval: usage increment failed",
					zap.String("candidate_id", sc.Candidate.ID),
					zap.Error(err),
				)
			}
		}
	}

	log.Info("retrieval: ranked candidates",
		zap.Int("fetched", len(hits)),
		zap.Int("returned", len(scored)),
	)
	return scored, nil
}
