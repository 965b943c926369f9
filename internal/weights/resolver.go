// Package weights resolves the five scoring weights for a ranking request
// through a configuration fallback chain, memoizing results per context.
package weights

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/model"
)

// Scope identifies which configuration tier a weight record belongs to.
type Scope string

const (
	ScopeMethodology Scope = "methodology"
	ScopeIndustry    Scope = "industry"
	ScopeGlobal      Scope = "global"
)

// ConfigStore is the read side of the weight configuration. A nil result
// with a nil error means no record exists at that tier.
type ConfigStore interface {
	GetWeights(ctx context.Context, scope Scope, key string) (*model.ScoringWeights, error)
}

// Resolver resolves scoring weights for a request context. Results are
// memoized for the lifetime of the Resolver; a configuration change needs
// either a new Resolver or an explicit ClearCache.
type Resolver struct {
	store ConfigStore

	mu    sync.RWMutex
	cache map[string]model.ScoringWeights
}

// NewResolver creates a Resolver over the given configuration store. A nil
// store always resolves to the hard-coded fallback.
func NewResolver(store ConfigStore) *Resolver {
	return &Resolver{
		store: store,
		cache: make(map[string]model.ScoringWeights),
	}
}

// Resolve returns the scoring weights for the given context. Resolution
// order, first match wins: a methodology-specific record for each tag in
// caller-supplied order, then an industry-specific record, then the global
// record, then model.DefaultWeights. Configuration absence at every tier is
// not an error.
//
// Concurrent resolution of the same uncached key may compute twice; the
// computation is pure, so the cache accepts the last writer.
func (r *Resolver) Resolve(ctx context.Context, wc model.WeightContext) model.ScoringWeights {
	key := wc.Key()

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	resolved := r.lookup(ctx, wc)

	r.mu.Lock()
	r.cache[key] = resolved
	r.mu.Unlock()
	return resolved
}

// ClearCache drops all memoized resolutions.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]model.ScoringWeights)
	r.mu.Unlock()
}

func (r *Resolver) lookup(ctx context.Context, wc model.WeightContext) model.ScoringWeights {
	if r.store == nil {
		return model.DefaultWeights()
	}

	for _, tag := range wc.Methodologies {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if w := r.get(ctx, ScopeMethodology, tag); w != nil {
			return *w
		}
	}

	if industry := strings.ToLower(strings.TrimSpace(wc.Industry)); industry != "" {
		if w := r.get(ctx, ScopeIndustry, industry); w != nil {
			return *w
		}
	}

	if w := r.get(ctx, ScopeGlobal, ""); w != nil {
		return *w
	}

	return model.DefaultWeights()
}

// get treats store failures as configuration absence so a degraded config
// store cannot block ranking.
func (r *Resolver) get(ctx context.Context, scope Scope, key string) *model.ScoringWeights {
	w, err := r.store.GetWeights(ctx, scope, key)
	if err != nil {
		zap.L().Debug("weights: config lookup failed, treating as absent",
			zap.String("scope", string(scope)),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	}
	return w
}
