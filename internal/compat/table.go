// Package compat scores how well a candidate's symbolic tags fit a target
// request: methodology-to-methodology compatibility and industry relevance.
package compat

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/golden-retrieval/internal/labels"
)

// Entry is one curated compatibility record between two methodology tags.
// The pair is unordered: (a,b) and (b,a) are the same entry.
type Entry struct {
	TagA  string  `yaml:"tag_a"`
	TagB  string  `yaml:"tag_b"`
	Score float64 `yaml:"score"`
	Notes string  `yaml:"notes,omitempty"`
}

// Table holds curated pairwise compatibility scores, keyed by canonical
// unordered tag pairs. Read-only after construction.
type Table struct {
	scores map[[2]string]float64
}

// NewTable builds a Table from curated entries, validating shape up front
// so lookups never have to.
func NewTable(entries []Entry) (*Table, error) {
	scores := make(map[[2]string]float64, len(entries))
	for _, e := range entries {
		a := canon(e.TagA)
		b := canon(e.TagB)
		if a == "" || b == "" {
			return nil, eris.Errorf("compat: entry (%q, %q) has an empty tag", e.TagA, e.TagB)
		}
		if e.Score < 0 || e.Score > 1 {
			return nil, eris.Errorf("compat: entry (%q, %q) score %v outside [0,1]", e.TagA, e.TagB, e.Score)
		}
		scores[pairKey(a, b)] = e.Score
	}
	return &Table{scores: scores}, nil
}

// Lookup returns the curated compatibility score for an unordered tag pair.
func (t *Table) Lookup(a, b string) (float64, bool) {
	s, ok := t.scores[pairKey(canon(a), canon(b))]
	return s, ok
}

// Len returns the number of curated pairs.
func (t *Table) Len() int { return len(t.scores) }

// LoadTable reads a YAML file containing a list of entries.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "compat: read table file")
	}
	var entries []Entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, eris.Wrap(err, "compat: parse table file")
	}
	return NewTable(entries)
}

// DefaultTable returns the built-in curated compatibility table.
func DefaultTable() *Table {
	t, err := NewTable(defaultEntries)
	if err != nil {
		// defaultEntries is compiled-in data; a bad entry is a bug.
		panic(err)
	}
	return t
}

// defaultEntries covers the methodology pairs the corpus sees most often.
var defaultEntries = []Entry{
	{TagA: "van_westendorp", TagB: "gabor_granger", Score: 0.8, Notes: "both price-sensitivity techniques"},
	{TagA: "van_westendorp", TagB: "conjoint", Score: 0.6, Notes: "pricing overlap, different mechanics"},
	{TagA: "gabor_granger", TagB: "conjoint", Score: 0.5},
	{TagA: "maxdiff", TagB: "conjoint", Score: 0.75, Notes: "trade-off based preference measurement"},
	{TagA: "maxdiff", TagB: "ranking", Score: 0.6},
	{TagA: "net_promoter_score", TagB: "customer_satisfaction", Score: 0.7},
	{TagA: "brand_tracking", TagB: "ad_tracking", Score: 0.65},
	{TagA: "brand_tracking", TagB: "usage_and_attitudes", Score: 0.55},
	{TagA: "segmentation", TagB: "usage_and_attitudes", Score: 0.6},
	{TagA: "concept_testing", TagB: "ad_testing", Score: 0.7},
	{TagA: "concept_testing", TagB: "package_testing", Score: 0.6},
}

// canon maps a free-form tag to its canonical snake_case form.
func canon(s string) string {
	return strings.ToLower(labels.Normalize(s))
}

// pairKey returns the canonical unordered key for two canonical tags.
func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
