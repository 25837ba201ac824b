// Package embedding produces vector embeddings for text via an external
// embedding service, with caching and rate limiting wrappers.
package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/kaiseki/internal/config"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// NewFromConfig builds the embedder stack for the configured provider.
// The OpenAI embedder is wrapped with a rate limiter and a TTL cache so
// repeated queries never pay for a second API call.
func NewFromConfig(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	case "openai", "":
		inner, err := NewOpenAIEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		var e Embedder = inner
		if cfg.RatePerSecond > 0 {
			e = NewRateLimitedEmbedder(e, cfg.RatePerSecond, cfg.RateBurst)
		}
		if cfg.CacheTTLSecs > 0 {
			e = NewCachedEmbedder(e, cfg.CacheTTLSecs)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
