package retrieval

import (
	"context"
	"sync"

	"github.com/sells-group/golden-retrieval/internal/model"
)

// mockCorpusStore implements CorpusStore for testing.
type mockCorpusStore struct {
	hits      []model.SearchHit
	searchErr error

	mu             sync.Mutex
	searchCalls    int
	searchLimit    int
	searchFilter   model.SearchFilter
	incrementedIDs []string
	incrementErr   error
}

func (m *mockCorpusStore) SimilaritySearch(_ context.Context, _ model.Tier, _ []float32, filter model.SearchFilter, limit int) ([]model.SearchHit, error) {
	m.mu.Lock()
	m.searchCalls++
	m.searchLimit = limit
	m.searchFilter = filter
	m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockCorpusStore) IncrementUsage(_ context.Context, candidateID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.incrementedIDs = append(m.incrementedIDs, candidateID)
	return nil
}

// mockEmbedder implements embeddings.Provider for testing.
type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

// mockAnnotationStore implements annotation.Store for testing.
type mockAnnotationStore struct {
	annotations map[string][]model.Annotation
	err         error
}

func (m *mockAnnotationStore) AnnotationsFor(_ context.Context, candidateID string) ([]model.Annotation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.annotations[candidateID], nil
}
