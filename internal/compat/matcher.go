package compat

import (
	"github.com/sells-group/golden-retrieval/internal/labels"
)

const (
	// fuzzyTagThreshold is the minimum ratio before two methodology tags are
	// considered fuzzy-related; fuzzyTagWeight caps the contribution so a
	// fuzzy match never outscores a curated or exact one.
	fuzzyTagThreshold = 0.7
	fuzzyTagWeight    = 0.5

	// Industry matching is looser: synonym-group hits score a fixed 0.8, and
	// fuzzy hits above 0.6 contribute ratio * 0.7.
	synonymGroupScore      = 0.8
	fuzzyIndustryThreshold = 0.6
	fuzzyIndustryWeight    = 0.7
)

// defaultSynonymGroups clusters industry terms that refer to the same
// vertical. Membership is checked on canonical snake_case forms.
var defaultSynonymGroups = [][]string{
	{"electronics", "consumer_electronics", "tech", "technology"},
	{"healthcare", "pharma", "pharmaceuticals", "medical", "health"},
	{"finance", "banking", "fintech", "financial_services", "insurance"},
	{"retail", "ecommerce", "e_commerce", "shopping"},
	{"cpg", "consumer_goods", "fmcg", "packaged_goods"},
	{"automotive", "mobility", "auto"},
	{"food", "beverage", "food_and_beverage", "restaurants"},
	{"travel", "hospitality", "tourism", "airlines"},
	{"media", "entertainment", "streaming", "gaming"},
	{"telecom", "telecommunications", "wireless"},
	{"energy", "utilities", "oil_and_gas"},
	{"education", "edtech", "higher_education"},
}

// Matcher scores tag-set and industry relevance between corpus candidates
// and an incoming request. Read-only after construction; safe for
// concurrent use.
type Matcher struct {
	table  *Table
	groups map[string]int
}

// NewMatcher creates a Matcher over the given curated table. A nil group
// list selects the built-in industry synonym groups.
func NewMatcher(table *Table, groups [][]string) *Matcher {
	if table == nil {
		table = DefaultTable()
	}
	if groups == nil {
		groups = defaultSynonymGroups
	}
	idx := make(map[string]int)
	for i, group := range groups {
		for _, term := range group {
			idx[canon(term)] = i
		}
	}
	return &Matcher{table: table, groups: idx}
}

// MethodologyMatch returns a relevance score in [0,1] between a candidate's
// methodology tags and the target's. Either set empty yields 0. An exact
// canonical match short-circuits to 1.0; otherwise the best curated or
// capped fuzzy contribution across all tag pairs wins; a single strong
// match is sufficient.
func (m *Matcher) MethodologyMatch(candidateTags, targetTags []string) float64 {
	if len(candidateTags) == 0 || len(targetTags) == 0 {
		return 0.0
	}

	best := 0.0
	for _, target := range targetTags {
		tt := canon(target)
		if tt == "" {
			continue
		}
		for _, cand := range candidateTags {
			ct := canon(cand)
			if ct == "" {
				continue
			}
			if ct == tt {
				return 1.0
			}
			if s, ok := m.table.Lookup(ct, tt); ok {
				if s > best {
					best = s
				}
				continue // curated score preempts fuzzy for this pair
			}
			if r := labels.Ratio(ct, tt); r > fuzzyTagThreshold {
				if v := r * fuzzyTagWeight; v > best {
					best = v
				}
			}
		}
	}
	return best
}

// IndustryMatch returns a relevance score in [0,1] between a candidate's
// industry label and the target's. Empty inputs yield 0. Exact canonical
// match is 1.0, shared synonym-group membership is 0.8, and a fuzzy ratio
// above 0.6 contributes ratio * 0.7.
func (m *Matcher) IndustryMatch(candidateIndustry, targetIndustry string) float64 {
	c := canon(candidateIndustry)
	t := canon(targetIndustry)
	if c == "" || t == "" {
		return 0.0
	}
	if c == t {
		return 1.0
	}
	if gc, ok := m.groups[c]; ok {
		if gt, ok := m.groups[t]; ok && gc == gt {
			return synonymGroupScore
		}
	}
	if r := labels.Ratio(c, t); r > fuzzyIndustryThreshold {
		return r * fuzzyIndustryWeight
	}
	return 0.0
}
