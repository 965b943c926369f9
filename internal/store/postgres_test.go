package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/golden-retrieval/internal/model"
	"github.com/sells-group/golden-retrieval/internal/weights"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func candidateRows(mock pgxmock.PgxPoolIface, withDistance bool) *pgxmock.Rows {
	cols := []string{"id", "tier", "content", "methodologies", "industry", "quality", "verified", "usage_count", "seq", "created_at"}
	if withDistance {
		cols = append(cols, "distance")
	}
	return mock.NewRows(cols)
}

func TestPostgresStore_SimilaritySearch(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now()

	rows := candidateRows(mock, true).
		AddRow("11111111-1111-1111-1111-111111111111", model.TierPairs, "nps question",
			[]string{"Net_Promoter_Score"}, "saas", (*float64)(nil), true, 3, int64(1), now, 0.12).
		AddRow("22222222-2222-2222-2222-222222222222", model.TierPairs, "csat question",
			[]string{"Csat"}, "saas", (*float64)(nil), false, 0, int64(2), now, 0.30)

	mock.ExpectQuery(`SELECT .+ \(embedding <=> \$1::vector\) AS distance`).
		WithArgs("[1,0]", "pairs", 10).
		WillReturnRows(rows)

	hits, err := s.SimilaritySearch(context.Background(), model.TierPairs, []float32{1, 0}, model.SearchFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", hits[0].Candidate.ID)
	assert.InDelta(t, 0.12, hits[0].Distance, 1e-9)
	assert.True(t, hits[0].Candidate.Verified)
	assert.Equal(t, int64(2), hits[1].Candidate.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SimilaritySearch_WithFilters(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`AND methodologies && \$3 AND lower\(industry\) = lower\(\$4\)`).
		WithArgs("[1,0]", "pairs", []string{"Conjoint"}, "retail", 5).
		WillReturnRows(candidateRows(mock, true))

	hits, err := s.SimilaritySearch(context.Background(), model.TierPairs, []float32{1, 0},
		model.SearchFilter{Methodologies: []string{"Conjoint"}, Industry: "retail"}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCandidate_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM golden_candidates WHERE id = \$1`).
		WithArgs("33333333-3333-3333-3333-333333333333").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetCandidate(context.Background(), "33333333-3333-3333-3333-333333333333")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertCandidate(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO golden_candidates .+ RETURNING id, seq, created_at`).
		WithArgs("pairs", "some question", "[0.5,0.5]", []string{"Maxdiff"}, "cpg", (*float64)(nil), false).
		WillReturnRows(mock.NewRows([]string{"id", "seq", "created_at"}).
			AddRow("44444444-4444-4444-4444-444444444444", int64(7), now))

	c := &model.Candidate{
		Tier:          model.TierPairs,
		Content:       "some question",
		Embedding:     []float32{0.5, 0.5},
		Methodologies: []string{"Maxdiff"},
		Industry:      "cpg",
	}
	require.NoError(t, s.InsertCandidate(context.Background(), c))
	assert.Equal(t, "44444444-4444-4444-4444-444444444444", c.ID)
	assert.Equal(t, int64(7), c.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_IncrementUsage(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE golden_candidates SET usage_count = usage_count \+ 1`).
		WithArgs("55555555-5555-5555-5555-555555555555").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.IncrementUsage(context.Background(), "55555555-5555-5555-5555-555555555555")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_IncrementUsage_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE golden_candidates`).
		WithArgs("66666666-6666-6666-6666-666666666666").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.IncrementUsage(context.Background(), "66666666-6666-6666-6666-666666666666")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AnnotationsFor(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now()

	rows := mock.NewRows([]string{
		"id", "candidate_id", "methodological_rigor", "content_validity",
		"respondent_experience", "analytical_value", "business_impact",
		"verified", "labels", "created_at",
	}).AddRow("77777777-7777-7777-7777-777777777777", "11111111-1111-1111-1111-111111111111",
		4, 5, 3, 4, 2, true, []string{"Net_Promoter_Score"}, now)

	mock.ExpectQuery(`FROM golden_annotations`).
		WithArgs("11111111-1111-1111-1111-111111111111").
		WillReturnRows(rows)

	anns, err := s.AnnotationsFor(context.Background(), "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, [5]int{4, 5, 3, 4, 2}, anns[0].Pillars())
	assert.True(t, anns[0].Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertAnnotation(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO golden_annotations .+ RETURNING id, created_at`).
		WithArgs("11111111-1111-1111-1111-111111111111", 3, 3, 3, 3, 3, false, []string{}).
		WillReturnRows(mock.NewRows([]string{"id", "created_at"}).
			AddRow("88888888-8888-8888-8888-888888888888", now))

	a := &model.Annotation{
		CandidateID:          "11111111-1111-1111-1111-111111111111",
		MethodologicalRigor:  3,
		ContentValidity:      3,
		RespondentExperience: 3,
		AnalyticalValue:      3,
		BusinessImpact:       3,
	}
	require.NoError(t, s.InsertAnnotation(context.Background(), a))
	assert.Equal(t, "88888888-8888-8888-8888-888888888888", a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertAnnotation_Invalid(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	// Validation must fail before any query reaches the pool.
	err := s.InsertAnnotation(context.Background(), &model.Annotation{
		CandidateID:          "11111111-1111-1111-1111-111111111111",
		MethodologicalRigor:  0,
		ContentValidity:      3,
		RespondentExperience: 3,
		AnalyticalValue:      3,
		BusinessImpact:       3,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetWeights(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM scoring_weights`).
		WithArgs("methodology", "conjoint").
		WillReturnRows(mock.NewRows([]string{"semantic", "methodology", "industry", "quality", "annotation"}).
			AddRow(0.5, 0.2, 0.1, 0.1, 0.1))

	got, err := s.GetWeights(context.Background(), weights.ScopeMethodology, "Conjoint")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.5, got.Semantic, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetWeights_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM scoring_weights`).
		WithArgs("global", "").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetWeights(context.Background(), weights.ScopeGlobal, "")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetWeights(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO scoring_weights .+ ON CONFLICT`).
		WithArgs("industry", "healthcare", 0.4, 0.25, 0.15, 0.1, 0.1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetWeights(context.Background(), weights.ScopeIndustry, "Healthcare", model.DefaultWeights())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEncodeVector(t *testing.T) {
	assert.Equal(t, "[]", encodeVector(nil))
	assert.Equal(t, "[0.5,-1,0.25]", encodeVector([]float32{0.5, -1, 0.25}))
}
