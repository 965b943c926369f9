// Package embeddings provides the text-embedding provider used to place
// queries and corpus candidates in the same vector space.
package embeddings

import (
	"context"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/sells-group/golden-retrieval/internal/resilience"
)

const defaultModel = "text-embedding-3-small"

// Provider computes a fixed-length embedding for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Option configures the OpenAI provider.
type Option func(*OpenAIProvider)

// WithModel overrides the default embedding model.
func WithModel(model string) Option {
	return func(p *OpenAIProvider) {
		p.model = model
	}
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(p *OpenAIProvider) {
		p.baseURL = url
	}
}

// WithRateLimit caps embedding requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(p *OpenAIProvider) {
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry overrides the retry policy for transient API failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(p *OpenAIProvider) {
		p.retry = cfg
	}
}

// OpenAIProvider implements Provider against the OpenAI embeddings API.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	baseURL string
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewOpenAI creates an embedding provider backed by the OpenAI API.
func NewOpenAI(apiKey string, opts ...Option) *OpenAIProvider {
	p := &OpenAIProvider{
		model: defaultModel,
		retry: resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}

	cfg := openai.DefaultConfig(apiKey)
	if p.baseURL != "" {
		cfg.BaseURL = p.baseURL
	}
	p.client = openai.NewClientWithConfig(cfg)
	return p
}

// Embed returns the embedding vector for the given text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, eris.New("embeddings: empty text")
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "embeddings: rate limit wait")
		}
	}

	var resp openai.EmbeddingResponse
	err := resilience.Do(ctx, p.retry, func(ctx context.Context) error {
		var callErr error
		resp, callErr = p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(p.model),
		})
		return callErr
	})
	if err != nil {
		return nil, eris.Wrap(err, "embeddings: create embedding")
	}
	if len(resp.Data) == 0 {
		return nil, eris.New("embeddings: empty response")
	}
	return resp.Data[0].Embedding, nil
}
