package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/golden-retrieval/internal/model"
	"github.com/sells-group/golden-retrieval/internal/weights"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// for unit testing.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresStore implements Store using pgxpool with pgvector similarity.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS golden_candidates (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tier          TEXT NOT NULL,
	content       TEXT NOT NULL,
	embedding     vector(1536),
	methodologies TEXT[] NOT NULL DEFAULT '{}',
	industry      TEXT NOT NULL DEFAULT '',
	quality       REAL,
	verified      BOOLEAN NOT NULL DEFAULT FALSE,
	usage_count   INTEGER NOT NULL DEFAULT 0,
	seq           BIGSERIAL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS golden_annotations (
	id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	candidate_id          UUID NOT NULL REFERENCES golden_candidates(id) ON DELETE CASCADE,
	methodological_rigor  SMALLINT NOT NULL CHECK (methodological_rigor BETWEEN 1 AND 5),
	content_validity      SMALLINT NOT NULL CHECK (content_validity BETWEEN 1 AND 5),
	respondent_experience SMALLINT NOT NULL CHECK (respondent_experience BETWEEN 1 AND 5),
	analytical_value      SMALLINT NOT NULL CHECK (analytical_value BETWEEN 1 AND 5),
	business_impact       SMALLINT NOT NULL CHECK (business_impact BETWEEN 1 AND 5),
	verified              BOOLEAN NOT NULL DEFAULT FALSE,
	labels                TEXT[] NOT NULL DEFAULT '{}',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS scoring_weights (
	scope       TEXT NOT NULL,
	key         TEXT NOT NULL DEFAULT '',
	semantic    DOUBLE PRECISION NOT NULL,
	methodology DOUBLE PRECISION NOT NULL,
	industry    DOUBLE PRECISION NOT NULL,
	quality     DOUBLE PRECISION NOT NULL,
	annotation  DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (scope, key)
);

CREATE INDEX IF NOT EXISTS idx_golden_candidates_tier ON golden_candidates (tier);
CREATE INDEX IF NOT EXISTS idx_golden_annotations_candidate ON golden_annotations (candidate_id);
`

// Migrate applies the corpus schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const candidateColumns = `id, tier, content, methodologies, industry, quality, verified, usage_count, seq, created_at`

// SimilaritySearch returns up to limit candidates for a tier, ordered by
// verification status descending then cosine distance ascending.
func (s *PostgresStore) SimilaritySearch(ctx context.Context, tier model.Tier, embedding []float32, filter model.SearchFilter, limit int) ([]model.SearchHit, error) {
	query := `SELECT ` + candidateColumns + `, (embedding <=> $1::vector) AS distance
FROM golden_candidates
WHERE tier = $2 AND embedding IS NOT NULL`
	args := []any{encodeVector(embedding), string(tier)}

	if len(filter.Methodologies) > 0 {
		args = append(args, filter.Methodologies)
		query += ` AND methodologies && $` + strconv.Itoa(len(args))
	}
	if filter.Industry != "" {
		args = append(args, filter.Industry)
		query += ` AND lower(industry) = lower($` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, limit)
	query += ` ORDER BY verified DESC, distance ASC LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: similarity search")
	}
	defer rows.Close()

	var hits []model.SearchHit
	for rows.Next() {
		var hit model.SearchHit
		if err := scanCandidate(rows, &hit.Candidate, &hit.Distance); err != nil {
			return nil, eris.Wrap(err, "postgres: scan search hit")
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate search hits")
	}
	return hits, nil
}

// GetCandidate fetches a single candidate by ID. Returns nil when absent.
func (s *PostgresStore) GetCandidate(ctx context.Context, id string) (*model.Candidate, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM golden_candidates WHERE id = $1`, id)

	var c model.Candidate
	if err := scanCandidate(row, &c, nil); err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get candidate")
	}
	return &c, nil
}

// InsertCandidate stores a new candidate and fills in its generated ID,
// sequence, and creation time.
func (s *PostgresStore) InsertCandidate(ctx context.Context, c *model.Candidate) error {
	var embedding any
	if len(c.Embedding) > 0 {
		embedding = encodeVector(c.Embedding)
	}
	row := s.pool.QueryRow(ctx, `
INSERT INTO golden_candidates (tier, content, embedding, methodologies, industry, quality, verified)
VALUES ($1, $2, $3::vector, $4, $5, $6, $7)
RETURNING id, seq, created_at`,
		string(c.Tier), c.Content, embedding, c.Methodologies, c.Industry, c.Quality, c.Verified,
	)
	if err := row.Scan(&c.ID, &c.Position, &c.CreatedAt); err != nil {
		return eris.Wrap(err, "postgres: insert candidate")
	}
	return nil
}

// IncrementUsage bumps a candidate's usage counter by one.
func (s *PostgresStore) IncrementUsage(ctx context.Context, candidateID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE golden_candidates SET usage_count = usage_count + 1 WHERE id = $1`, candidateID)
	if err != nil {
		return eris.Wrap(err, "postgres: increment usage")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: candidate %s not found", candidateID)
	}
	return nil
}

// AnnotationsFor returns all annotations attached to a candidate.
func (s *PostgresStore) AnnotationsFor(ctx context.Context, candidateID string) ([]model.Annotation, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, candidate_id, methodological_rigor, content_validity, respondent_experience,
       analytical_value, business_impact, verified, labels, created_at
FROM golden_annotations
WHERE candidate_id = $1
ORDER BY created_at`, candidateID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: annotations for candidate")
	}
	defer rows.Close()

	var anns []model.Annotation
	for rows.Next() {
		var a model.Annotation
		err := rows.Scan(
			&a.ID, &a.CandidateID,
			&a.MethodologicalRigor, &a.ContentValidity, &a.RespondentExperience,
			&a.AnalyticalValue, &a.BusinessImpact,
			&a.Verified, &a.Labels, &a.CreatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan annotation")
		}
		anns = append(anns, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate annotations")
	}
	return anns, nil
}

// InsertAnnotation stores a new annotation and fills in its generated ID
// and creation time.
func (s *PostgresStore) InsertAnnotation(ctx context.Context, a *model.Annotation) error {
	if err := a.Validate(); err != nil {
		return eris.Wrap(err, "postgres: insert annotation")
	}
	labels := a.Labels
	if labels == nil {
		labels = []string{}
	}
	row := s.pool.QueryRow(ctx, `
INSERT INTO golden_annotations (candidate_id, methodological_rigor, content_validity,
	respondent_experience, analytical_value, business_impact, verified, labels)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at`,
		a.CandidateID,
		a.MethodologicalRigor, a.ContentValidity, a.RespondentExperience,
		a.AnalyticalValue, a.BusinessImpact,
		a.Verified, labels,
	)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return eris.Wrap(err, "postgres: insert annotation")
	}
	return nil
}

// GetWeights fetches a scoring-weight record. Returns nil when no record
// exists for the scope and key.
func (s *PostgresStore) GetWeights(ctx context.Context, scope weights.Scope, key string) (*model.ScoringWeights, error) {
	row := s.pool.QueryRow(ctx, `
SELECT semantic, methodology, industry, quality, annotation
FROM scoring_weights
WHERE scope = $1 AND key = $2`, string(scope), strings.ToLower(key))

	var w model.ScoringWeights
	if err := row.Scan(&w.Semantic, &w.Methodology, &w.Industry, &w.Quality, &w.Annotation); err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get weights")
	}
	if err := w.Validate(); err != nil {
		return nil, eris.Wrap(err, "postgres: get weights")
	}
	return &w, nil
}

// SetWeights upserts a scoring-weight record. Used by operational tooling
// to seed configurations.
func (s *PostgresStore) SetWeights(ctx context.Context, scope weights.Scope, key string, w model.ScoringWeights) error {
	if err := w.Validate(); err != nil {
		return eris.Wrap(err, "postgres: set weights")
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO scoring_weights (scope, key, semantic, methodology, industry, quality, annotation)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (scope, key) DO UPDATE SET
	semantic = EXCLUDED.semantic,
	methodology = EXCLUDED.methodology,
	industry = EXCLUDED.industry,
	quality = EXCLUDED.quality,
	annotation = EXCLUDED.annotation`,
		string(scope), strings.ToLower(key),
		w.Semantic, w.Methodology, w.Industry, w.Quality, w.Annotation,
	)
	return eris.Wrap(err, "postgres: set weights")
}

// scanCandidate scans the candidate columns, plus the trailing distance
// column when dist is non-nil.
func scanCandidate(row pgx.Row, c *model.Candidate, dist *float64) error {
	dest := []any{
		&c.ID, &c.Tier, &c.Content, &c.Methodologies, &c.Industry,
		&c.Quality, &c.Verified, &c.UsageCount, &c.Position, &c.CreatedAt,
	}
	if dist != nil {
		dest = append(dest, dist)
	}
	return row.Scan(dest...)
}

// encodeVector renders a pgvector literal like [0.1,0.2,0.3].
func encodeVector(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
