package model

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ScoringWeights are the five non-negative factor weights used to compose a
// candidate's composite score. They should sum to 1.0; the scorer does not
// enforce that, so callers validating configured records use Validate.
type ScoringWeights struct {
	Semantic    float64 `json:"semantic" yaml:"semantic" mapstructure:"semantic"`
	Methodology float64 `json:"methodology" yaml:"methodology" mapstructure:"methodology"`
	Industry    float64 `json:"industry" yaml:"industry" mapstructure:"industry"`
	Quality     float64 `json:"quality" yaml:"quality" mapstructure:"quality"`
	Annotation  float64 `json:"annotation" yaml:"annotation" mapstructure:"annotation"`
}

// DefaultWeights is the hard-coded fallback used when no configuration
// exists at any resolution tier.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Semantic:    0.40,
		Methodology: 0.25,
		Industry:    0.15,
		Quality:     0.10,
		Annotation:  0.10,
	}
}

// Validate rejects negative weights. Run at config-load time, not per score.
func (w ScoringWeights) Validate() error {
	for _, v := range []float64{w.Semantic, w.Methodology, w.Industry, w.Quality, w.Annotation} {
		if v < 0 {
			return eris.Errorf("scoring weights: negative weight %v", v)
		}
	}
	return nil
}

// WeightContext is the lookup key used to select which scoring-weight
// configuration applies to a ranking request.
type WeightContext struct {
	Methodologies []string
	Industry      string
}

// Key returns a deterministic cache key: sorted lower-cased methodology tags
// joined with commas, then the lower-cased industry.
func (c WeightContext) Key() string {
	tags := make([]string, len(c.Methodologies))
	for i, t := range c.Methodologies {
		tags[i] = strings.ToLower(strings.TrimSpace(t))
	}
	sort.Strings(tags)
	return strings.Join(tags, ",") + "|" + strings.ToLower(strings.TrimSpace(c.Industry))
}
