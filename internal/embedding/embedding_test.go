package embedding

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/hyperjump/kaiseki/internal/config"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(64)
	ctx := context.Background()
	a, err := e.Embed(ctx, "titanium alloy")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(ctx, "titanium alloy")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same text should produce identical embeddings")
	}
	c, _ := e.Embed(ctx, "different text")
	if reflect.DeepEqual(a, c) {
		t.Error("different texts should produce different embeddings")
	}
}

func TestMockEmbedderUnitNorm(t *testing.T) {
	e := NewMockEmbedder(128)
	vec, err := e.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v * v)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Errorf("norm² = %v, want 1.0", sum)
	}
}

func TestMockEmbedderBatch(t *testing.T) {
	e := NewMockEmbedder(32)
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 32 {
		t.Fatalf("unexpected batch shape: %d vectors", len(vecs))
	}
	single, _ := e.Embed(context.Background(), "a")
	if !reflect.DeepEqual(vecs[0], single) {
		t.Error("batch and single embeddings should match")
	}
}

// countingEmbedder tracks how many calls reach it, for cache tests.
type countingEmbedder struct {
	*MockEmbedder
	embedCalls int
	batchCalls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.embedCalls++
	return c.MockEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedderHitSkipsInner(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(16)}
	e := NewCachedEmbedder(inner, 60)
	ctx := context.Background()

	first, err := e.Embed(ctx, "query")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Embed(ctx, "query")
	if err != nil {
		t.Fatal(err)
	}
	if inner.embedCalls != 1 {
		t.Errorf("inner called %d times, want 1", inner.embedCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached embedding differs from original")
	}
}

func TestCachedEmbedderBatchOnlyMissesForwarded(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(16)}
	e := NewCachedEmbedder(inner, 60)
	ctx := context.Background()

	if _, err := e.Embed(ctx, "warm"); err != nil {
		t.Fatal(err)
	}
	vecs, err := e.EmbedBatch(ctx, []string{"warm", "cold"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 || vecs[0] == nil || vecs[1] == nil {
		t.Fatalf("unexpected batch result: %v", vecs)
	}
	if inner.batchCalls != 1 {
		t.Errorf("inner batch called %d times, want 1", inner.batchCalls)
	}
	warm, _ := inner.MockEmbedder.Embed(ctx, "warm")
	if !reflect.DeepEqual(vecs[0], warm) {
		t.Error("cached slot returned wrong vector")
	}
}

func TestRateLimitedEmbedderCancelledContext(t *testing.T) {
	inner := NewMockEmbedder(8)
	e := NewRateLimitedEmbedder(inner, 0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())

	// First call consumes the burst token.
	if _, err := e.Embed(ctx, "first"); err != nil {
		t.Fatal(err)
	}
	cancel()
	if _, err := e.Embed(ctx, "second"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewFromConfigMock(t *testing.T) {
	e, err := NewFromConfig(config.EmbeddingConfig{Provider: "mock", Dimensions: 24})
	if err != nil {
		t.Fatal(err)
	}
	if e.Dimensions() != 24 {
		t.Errorf("Dimensions = %d, want 24", e.Dimensions())
	}
}

func TestNewFromConfigUnknownProvider(t *testing.T) {
	if _, err := NewFromConfig(config.EmbeddingConfig{Provider: "bogus"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewFromConfigOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewFromConfig(config.EmbeddingConfig{Provider: "openai"}); err == nil {
		t.Error("expected error when no API key is configured")
	}
}
