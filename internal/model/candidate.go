package model

import "time"

// Tier identifies which corpus a candidate belongs to.
type Tier string

const (
	TierPairs     Tier = "pairs"     // full request/survey golden pairs
	TierSections  Tier = "sections"  // individual survey sections
	TierQuestions Tier = "questions" // individual survey questions
)

// Valid reports whether t is one of the known corpus tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierPairs, TierSections, TierQuestions:
		return true
	}
	return false
}

// Candidate is one retrievable unit from the golden corpus.
type Candidate struct {
	ID            string    `json:"id"`
	Tier          Tier      `json:"tier"`
	Content       string    `json:"content"`
	Embedding     []float32 `json:"-"`
	Methodologies []string  `json:"methodologies,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Quality       *float64  `json:"quality,omitempty"` // intrinsic quality in [0,1]; nil means unknown
	Verified      bool      `json:"verified"`
	UsageCount    int       `json:"usage_count"`
	Position      int64     `json:"position"` // corpus insertion order
	CreatedAt     time.Time `json:"created_at"`
}

// defaultQuality is assumed for candidates with no intrinsic quality score.
const defaultQuality = 0.5

// QualityOrDefault returns the intrinsic quality score, or 0.5 when unset.
func (c Candidate) QualityOrDefault() float64 {
	if c.Quality == nil {
		return defaultQuality
	}
	return *c.Quality
}

// SearchFilter narrows a similarity search to candidates carrying any of
// the given methodology tags or the given industry. Zero values mean
// unfiltered.
type SearchFilter struct {
	Methodologies []string `json:"methodologies,omitempty"`
	Industry      string   `json:"industry,omitempty"`
}

// SearchHit is a candidate returned by a similarity search, together with
// its raw embedding distance (smaller means more similar).
type SearchHit struct {
	Candidate Candidate `json:"candidate"`
	Distance  float64   `json:"distance"`
}

// ScoredCandidate is a candidate with its five sub-scores and the final
// composite. It exists only for the duration of one ranking call.
type ScoredCandidate struct {
	Candidate        Candidate `json:"candidate"`
	Similarity       float64   `json:"similarity"`
	MethodologyScore float64   `json:"methodology_score"`
	IndustryScore    float64   `json:"industry_score"`
	QualityScore     float64   `json:"quality_score"`
	AnnotationScore  float64   `json:"annotation_score"`
	Composite        float64   `json:"composite"`
}
