package embedding

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedEmbedder wraps an Embedder with a TTL cache keyed by text. Query
// embeddings repeat far more often than corpus chunks, so a short TTL
// removes most duplicate API calls.
type CachedEmbedder struct {
	inner Embedder
	cache *gocache.Cache
}

// NewCachedEmbedder wraps inner with a cache whose entries expire after
// ttlSecs seconds.
func NewCachedEmbedder(inner Embedder, ttlSecs int) *CachedEmbedder {
	ttl := time.Duration(ttlSecs) * time.Second
	return &CachedEmbedder{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Embed returns the cached embedding for text, calling the inner embedder on
// a miss.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if val, found := e.cache.Get(text); found {
		return val.([]float32), nil
	}
	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.SetDefault(text, vec)
	return vec, nil
}

// EmbedBatch serves cached texts and forwards only the misses to the inner
// embedder in a single call.
func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int
	for i, t := range texts {
		if val, found := e.cache.Get(t); found {
			out[i] = val.([]float32)
			continue
		}
		missTexts = append(missTexts, t)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return out, nil
	}
	vecs, err := e.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, vec := range vecs {
		out[missIdx[j]] = vec
		e.cache.SetDefault(missTexts[j], vec)
	}
	return out, nil
}

// Dimensions returns the inner embedder's dimension.
func (e *CachedEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Close closes the inner embedder.
func (e *CachedEmbedder) Close() error {
	e.cache.Flush()
	return e.inner.Close()
}
