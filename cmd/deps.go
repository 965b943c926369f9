package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/golden-retrieval/internal/annotation"
	"github.com/sells-group/golden-retrieval/internal/compat"
	"github.com/sells-group/golden-retrieval/internal/retrieval"
	"github.com/sells-group/golden-retrieval/internal/store"
	"github.com/sells-group/golden-retrieval/internal/weights"
	"github.com/sells-group/golden-retrieval/pkg/anthropic"
	"github.com/sells-group/golden-retrieval/pkg/embeddings"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = "golden.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initEmbedder() (embeddings.Provider, error) {
	if cfg.OpenAI.Key == "" {
		return nil, eris.New("openai API key is required (GOLDEN_OPENAI_KEY)")
	}
	opts := []embeddings.Option{
		embeddings.WithModel(cfg.OpenAI.EmbeddingModel),
		embeddings.WithRateLimit(cfg.OpenAI.RequestsPerSecond, 1),
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, embeddings.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return embeddings.NewOpenAI(cfg.OpenAI.Key, opts...), nil
}

func initAnthropic() (anthropic.Client, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required (GOLDEN_ANTHROPIC_KEY)")
	}
	return anthropic.NewClient(cfg.Anthropic.Key), nil
}

func initMatcher() (*compat.Matcher, error) {
	table := compat.DefaultTable()
	if cfg.Compat.TablePath != "" {
		t, err := compat.LoadTable(cfg.Compat.TablePath)
		if err != nil {
			return nil, err
		}
		table = t
	}
	return compat.NewMatcher(table, nil), nil
}

func initRetriever(st store.Store) (*retrieval.Retriever, error) {
	embedder, err := initEmbedder()
	if err != nil {
		return nil, err
	}
	matcher, err := initMatcher()
	if err != nil {
		return nil, err
	}

	scorer := retrieval.NewScorer(matcher, annotation.NewAggregator(st), cfg.Retrieval.VerificationBoost)
	resolver := weights.NewResolver(st)

	return retrieval.NewRetriever(st, embedder, scorer, resolver,
		retrieval.WithOverfetch(cfg.Retrieval.Overfetch),
		retrieval.WithScoreConcurrency(cfg.Retrieval.ScoreConcurrency),
	), nil
}
