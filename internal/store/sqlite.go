package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/golden-retrieval/internal/model"
	"github.com/sells-group/golden-retrieval/internal/weights"
	"github.com/sells-group/golden-retrieval/pkg/embeddings"
)

// SQLiteStore implements Store using modernc.org/sqlite. Embeddings are
// stored as JSON and similarity is computed brute-force in Go, which is
// plenty for local development corpora.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS golden_candidates (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	tier          TEXT NOT NULL,
	content       TEXT NOT NULL,
	embedding     TEXT,
	methodologies TEXT NOT NULL DEFAULT '[]',
	industry      TEXT NOT NULL DEFAULT '',
	quality       REAL,
	verified      INTEGER NOT NULL DEFAULT 0,
	usage_count   INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS golden_annotations (
	id                    TEXT PRIMARY KEY,
	candidate_id          TEXT NOT NULL REFERENCES golden_candidates(id) ON DELETE CASCADE,
	methodological_rigor  INTEGER NOT NULL CHECK (methodological_rigor BETWEEN 1 AND 5),
	content_validity      INTEGER NOT NULL CHECK (content_validity BETWEEN 1 AND 5),
	respondent_experience INTEGER NOT NULL CHECK (respondent_experience BETWEEN 1 AND 5),
	analytical_value      INTEGER NOT NULL CHECK (analytical_value BETWEEN 1 AND 5),
	business_impact       INTEGER NOT NULL CHECK (business_impact BETWEEN 1 AND 5),
	verified              INTEGER NOT NULL DEFAULT 0,
	labels                TEXT NOT NULL DEFAULT '[]',
	created_at            DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS scoring_weights (
	scope       TEXT NOT NULL,
	key         TEXT NOT NULL DEFAULT '',
	semantic    REAL NOT NULL,
	methodology REAL NOT NULL,
	industry    REAL NOT NULL,
	quality     REAL NOT NULL,
	annotation  REAL NOT NULL,
	PRIMARY KEY (scope, key)
);

CREATE INDEX IF NOT EXISTS idx_golden_candidates_tier ON golden_candidates(tier);
CREATE INDEX IF NOT EXISTS idx_golden_annotations_candidate ON golden_annotations(candidate_id);
`

// Migrate applies the corpus schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SimilaritySearch loads the tier's candidates, computes cosine distance in
// Go, and returns the closest limit candidates ordered by verification
// status then distance.
func (s *SQLiteStore) SimilaritySearch(ctx context.Context, tier model.Tier, embedding []float32, filter model.SearchFilter, limit int) ([]model.SearchHit, error) {
	query := `SELECT seq, id, tier, content, embedding, methodologies, industry, quality, verified, usage_count, created_at
FROM golden_candidates
WHERE tier = ? AND embedding IS NOT NULL`
	args := []any{string(tier)}
	if filter.Industry != "" {
		query += ` AND lower(industry) = lower(?)`
		args = append(args, filter.Industry)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: similarity search")
	}
	defer rows.Close()

	var hits []model.SearchHit
	for rows.Next() {
		c, vec, err := scanSQLiteCandidate(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan candidate")
		}
		if !matchesMethodologies(c.Methodologies, filter.Methodologies) {
			continue
		}
		hits = append(hits, model.SearchHit{
			Candidate: c,
			Distance:  embeddings.CosineDistance(embedding, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate candidates")
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Candidate.Verified != b.Candidate.Verified {
			return a.Candidate.Verified
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.Candidate.Position < b.Candidate.Position
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// GetCandidate fetches a single candidate by ID. Returns nil when absent.
func (s *SQLiteStore) GetCandidate(ctx context.Context, id string) (*model.Candidate, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT seq, id, tier, content, embedding, methodologies, industry, quality, verified, usage_count, created_at
FROM golden_candidates WHERE id = ?`, id)

	c, _, err := scanSQLiteCandidate(row)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get candidate")
	}
	return &c, nil
}

// InsertCandidate stores a new candidate and fills in its generated ID,
// sequence, and creation time.
func (s *SQLiteStore) InsertCandidate(ctx context.Context, c *model.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	var embJSON any
	if len(c.Embedding) > 0 {
		raw, err := json.Marshal(c.Embedding)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal embedding")
		}
		embJSON = string(raw)
	}
	methJSON, err := json.Marshal(sliceOrEmpty(c.Methodologies))
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal methodologies")
	}

	row := s.db.QueryRowContext(ctx, `
INSERT INTO golden_candidates (id, tier, content, embedding, methodologies, industry, quality, verified, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING seq`,
		c.ID, string(c.Tier), c.Content, embJSON, string(methJSON),
		c.Industry, c.Quality, c.Verified, c.CreatedAt,
	)
	if err := row.Scan(&c.Position); err != nil {
		return eris.Wrap(err, "sqlite: insert candidate")
	}
	return nil
}

// IncrementUsage bumps a candidate's usage counter by one.
func (s *SQLiteStore) IncrementUsage(ctx context.Context, candidateID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE golden_candidates SET usage_count = usage_count + 1 WHERE id = ?`, candidateID)
	if err != nil {
		return eris.Wrap(err, "sqlite: increment usage")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: increment usage rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: candidate %s not found", candidateID)
	}
	return nil
}

// AnnotationsFor returns all annotations attached to a candidate.
func (s *SQLiteStore) AnnotationsFor(ctx context.Context, candidateID string) ([]model.Annotation, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, candidate_id, methodological_rigor, content_validity, respondent_experience,
       analytical_value, business_impact, verified, labels, created_at
FROM golden_annotations
WHERE candidate_id = ?
ORDER BY created_at`, candidateID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: annotations for candidate")
	}
	defer rows.Close()

	var anns []model.Annotation
	for rows.Next() {
		var a model.Annotation
		var labelsJSON string
		err := rows.Scan(
			&a.ID, &a.CandidateID,
			&a.MethodologicalRigor, &a.ContentValidity, &a.RespondentExperience,
			&a.AnalyticalValue, &a.BusinessImpact,
			&a.Verified, &labelsJSON, &a.CreatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan annotation")
		}
		if err := json.Unmarshal([]byte(labelsJSON), &a.Labels); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal labels")
		}
		anns = append(anns, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate annotations")
	}
	return anns, nil
}

// InsertAnnotation stores a new annotation and fills in its generated ID
// and creation time.
func (s *SQLiteStore) InsertAnnotation(ctx context.Context, a *model.Annotation) error {
	if err := a.Validate(); err != nil {
		return eris.Wrap(err, "sqlite: insert annotation")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	labelsJSON, err := json.Marshal(sliceOrEmpty(a.Labels))
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal labels")
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO golden_annotations (id, candidate_id, methodological_rigor, content_validity,
	respondent_experience, analytical_value, business_impact, verified, labels, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CandidateID,
		a.MethodologicalRigor, a.ContentValidity, a.RespondentExperience,
		a.AnalyticalValue, a.BusinessImpact,
		a.Verified, string(labelsJSON), a.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert annotation")
}

// GetWeights fetches a scoring-weight record. Returns nil when no record
// exists for the scope and key.
func (s *SQLiteStore) GetWeights(ctx context.Context, scope weights.Scope, key string) (*model.ScoringWeights, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT semantic, methodology, industry, quality, annotation
FROM scoring_weights
WHERE scope = ? AND key = ?`, string(scope), strings.ToLower(key))

	var w model.ScoringWeights
	if err := row.Scan(&w.Semantic, &w.Methodology, &w.Industry, &w.Quality, &w.Annotation); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get weights")
	}
	if err := w.Validate(); err != nil {
		return nil, eris.Wrap(err, "sqlite: get weights")
	}
	return &w, nil
}

// SetWeights upserts a scoring-weight record. Used by operational tooling
// to seed configurations.
func (s *SQLiteStore) SetWeights(ctx context.Context, scope weights.Scope, key string, w model.ScoringWeights) error {
	if err := w.Validate(); err != nil {
		return eris.Wrap(err, "sqlite: set weights")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO scoring_weights (scope, key, semantic, methodology, industry, quality, annotation)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (scope, key) DO UPDATE SET
	semantic = excluded.semantic,
	methodology = excluded.methodology,
	industry = excluded.industry,
	quality = excluded.quality,
	annotation = excluded.annotation`,
		string(scope), strings.ToLower(key),
		w.Semantic, w.Methodology, w.Industry, w.Quality, w.Annotation,
	)
	return eris.Wrap(err, "sqlite: set weights")
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteCandidate(row sqlScanner) (model.Candidate, []float32, error) {
	var c model.Candidate
	var embJSON, methJSON sql.NullString
	err := row.Scan(
		&c.Position, &c.ID, &c.Tier, &c.Content, &embJSON, &methJSON,
		&c.Industry, &c.Quality, &c.Verified, &c.UsageCount, &c.CreatedAt,
	)
	if err != nil {
		return c, nil, err
	}

	var vec []float32
	if embJSON.Valid && embJSON.String != "" {
		if err := json.Unmarshal([]byte(embJSON.String), &vec); err != nil {
			return c, nil, eris.Wrap(err, "unmarshal embedding")
		}
		c.Embedding = vec
	}
	if methJSON.Valid && methJSON.String != "" {
		if err := json.Unmarshal([]byte(methJSON.String), &c.Methodologies); err != nil {
			return c, nil, eris.Wrap(err, "unmarshal methodologies")
		}
	}
	return c, vec, nil
}

// matchesMethodologies reports whether the candidate's tags overlap the
// filter tags. An empty filter matches everything.
func matchesMethodologies(candidateTags, filterTags []string) bool {
	if len(filterTags) == 0 {
		return true
	}
	for _, ft := range filterTags {
		for _, ct := range candidateTags {
			if strings.EqualFold(ft, ct) {
				return true
			}
		}
	}
	return false
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
