package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/golden-retrieval/internal/resilience"
)

func fakeEmbeddingServer(t *testing.T, vector []float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vector},
			},
			"model": req.Model,
		})
	}))
}

func TestOpenAIProvider_Embed(t *testing.T) {
	srv := fakeEmbeddingServer(t, []float32{0.1, 0.2, 0.3})
	defer srv.Close()

	p := NewOpenAI("test-key",
		WithBaseURL(srv.URL),
		WithModel("text-embedding-3-small"),
		WithRateLimit(100, 10),
	)

	vec, err := p.Embed(context.Background(), "pricing study for consumer electronics")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIProvider_EmptyText(t *testing.T) {
	p := NewOpenAI("test-key")

	_, err := p.Embed(context.Background(), "")
	assert.Error(t, err)
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", WithBaseURL(srv.URL),
		WithRetry(resilience.RetryConfig{Attempts: 1}))

	_, err := p.Embed(context.Background(), "anything")
	assert.Error(t, err)
}

func TestOpenAIProvider_RetriesTransientFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float32{1, 2}},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", WithBaseURL(srv.URL),
		WithRetry(resilience.RetryConfig{Attempts: 3, InitialBackoff: time.Millisecond}))

	vec, err := p.Embed(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vec)
	assert.Equal(t, 3, calls)
}
