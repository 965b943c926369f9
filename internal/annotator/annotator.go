// Package annotator produces first-pass quality annotations for corpus
// candidates by asking Claude to rate them against the five-pillar rubric.
// Machine annotations are stored unverified; a human reviewer promotes them.
package annotator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/golden-retrieval/internal/labels"
	"github.com/sells-group/golden-retrieval/internal/model"
	"github.com/sells-group/golden-retrieval/pkg/anthropic"
)

const defaultMaxTokens = 512

const rubricPrompt = `You are a senior survey methodologist reviewing examples
for a golden corpus. Rate the given survey content on five pillars, each an
integer from 1 (poor) to 5 (excellent):

- methodological_rigor: does the content follow sound survey methodology?
- content_validity: does it measure what it claims to measure?
- respondent_experience: is it clear, unbiased, and reasonable to answer?
- analytical_value: will the collected data support meaningful analysis?
- business_impact: does it connect to decisions a sponsor would make?

Also list any methodology labels that apply (for example net_promoter_score,
van_westendorp, maxdiff, conjoint).

Respond with only a JSON object:
{"methodological_rigor": N, "content_validity": N, "respondent_experience": N,
"analytical_value": N, "business_impact": N, "labels": ["..."]}`

// Annotator rates candidates with Claude and returns unverified annotations.
type Annotator struct {
	ai    anthropic.Client
	model string
	log   *zap.Logger
}

// New creates an Annotator that rates with the given model.
func New(ai anthropic.Client, aiModel string) *Annotator {
	return &Annotator{
		ai:    ai,
		model: aiModel,
		log:   zap.L().With(zap.String("component", "annotator")),
	}
}

type ratingResponse struct {
	MethodologicalRigor  int      `json:"methodological_rigor"`
	ContentValidity      int      `json:"content_validity"`
	RespondentExperience int      `json:"respondent_experience"`
	AnalyticalValue      int      `json:"analytical_value"`
	BusinessImpact       int      `json:"business_impact"`
	Labels               []string `json:"labels"`
}

// Annotate rates a single candidate and returns the resulting annotation.
// The annotation is not persisted and is never marked verified.
func (a *Annotator) Annotate(ctx context.Context, c *model.Candidate) (*model.Annotation, error) {
	userMsg := fmt.Sprintf("Tier: %s\nMethodologies: %s\nIndustry: %s\n\nContent:\n%s",
		c.Tier, strings.Join(c.Methodologies, ", "), c.Industry, c.Content)

	resp, err := a.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: defaultMaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(rubricPrompt),
		Messages:  []anthropic.Message{{Role: "user", Content: userMsg}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "annotator: claude request")
	}
	resp.Usage.LogCost(a.model, "annotate")

	text := resp.Text()
	if text == "" {
		return nil, eris.New("annotator: empty claude response")
	}

	// Find JSON in the response (it may have surrounding text).
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return nil, eris.Errorf("annotator: no JSON in response: %s", text)
	}

	var rating ratingResponse
	if err := json.Unmarshal([]byte(text[jsonStart:jsonEnd+1]), &rating); err != nil {
		return nil, eris.Wrap(err, "annotator: parse response JSON")
	}

	pillars := [5]int{
		rating.MethodologicalRigor,
		rating.ContentValidity,
		rating.RespondentExperience,
		rating.AnalyticalValue,
		rating.BusinessImpact,
	}
	for i, p := range pillars {
		if p == 0 {
			return nil, eris.Errorf("annotator: rating missing pillar: %s", text)
		}
		pillars[i] = clampRating(p)
	}

	ann := &model.Annotation{
		CandidateID:          c.ID,
		MethodologicalRigor:  pillars[0],
		ContentValidity:      pillars[1],
		RespondentExperience: pillars[2],
		AnalyticalValue:      pillars[3],
		BusinessImpact:       pillars[4],
		Labels:               labels.NormalizeBatch(rating.Labels),
	}
	a.log.Debug("candidate annotated",
		zap.String("candidate_id", c.ID),
		zap.Float64("pillar_mean", ann.PillarMean()),
	)
	return ann, nil
}

func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}
