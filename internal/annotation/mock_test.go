package annotation

import (
	"context"

	"github.com/sells-group/golden-retrieval/internal/model"
)

// mockStore implements Store for testing.
type mockStore struct {
	annotations map[string][]model.Annotation
	err         error
	calls       int
}

func (m *mockStore) AnnotationsFor(_ context.Context, candidateID string) ([]model.Annotation, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.annotations[candidateID], nil
}
