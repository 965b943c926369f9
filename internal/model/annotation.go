package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// Pillar names the five fixed quality dimensions scored by annotators.
type Pillar string

const (
	PillarMethodologicalRigor  Pillar = "methodological_rigor"
	PillarContentValidity      Pillar = "content_validity"
	PillarRespondentExperience Pillar = "respondent_experience"
	PillarAnalyticalValue      Pillar = "analytical_value"
	PillarBusinessImpact       Pillar = "business_impact"
)

// Annotation is a quality rating attached to a candidate. Each pillar
// rating is an integer in [1,5].
type Annotation struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`

	MethodologicalRigor  int `json:"methodological_rigor"`
	ContentValidity      int `json:"content_validity"`
	RespondentExperience int `json:"respondent_experience"`
	AnalyticalValue      int `json:"analytical_value"`
	BusinessImpact       int `json:"business_impact"`

	Verified  bool      `json:"verified"`
	Labels    []string  `json:"labels,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Pillars returns the five pillar ratings in declaration order.
func (a Annotation) Pillars() [5]int {
	return [5]int{
		a.MethodologicalRigor,
		a.ContentValidity,
		a.RespondentExperience,
		a.AnalyticalValue,
		a.BusinessImpact,
	}
}

// Validate checks the pillar-rating invariant. A rating outside [1,5] means
// the annotation store is misbehaving.
func (a Annotation) Validate() error {
	for _, r := range a.Pillars() {
		if r < 1 || r > 5 {
			return eris.Errorf("annotation %s: pillar rating %d outside [1,5]", a.ID, r)
		}
	}
	return nil
}

// PillarMean returns the arithmetic mean of the five pillar ratings.
func (a Annotation) PillarMean() float64 {
	var sum int
	for _, r := range a.Pillars() {
		sum += r
	}
	return float64(sum) / 5.0
}
