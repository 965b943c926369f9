package weights

import (
	"context"
	"sync"

	"github.com/sells-group/golden-retrieval/internal/model"
)

type lookupKey struct {
	scope Scope
	key   string
}

// mockConfigStore implements ConfigStore for testing.
type mockConfigStore struct {
	records map[lookupKey]model.ScoringWeights
	err     error

	mu    sync.Mutex
	calls []lookupKey
}

func (m *mockConfigStore) GetWeights(_ context.Context, scope Scope, key string) (*model.ScoringWeights, error) {
	m.mu.Lock()
	m.calls = append(m.calls, lookupKey{scope, key})
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if w, ok := m.records[lookupKey{scope, key}]; ok {
		return &w, nil
	}
	return nil, nil
}

func (m *mockConfigStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
