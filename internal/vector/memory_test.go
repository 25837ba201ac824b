package vector

import (
	"context"
	"math"
	"reflect"
	"testing"
)

func unit(vals ...float32) []float32 {
	var sum float64
	for _, v := range vals {
		sum += float64(v * v)
	}
	norm := float32(1 / math.Sqrt(sum))
	out := make([]float32, len(vals))
	for i, v := range vals {
		out[i] = v * norm
	}
	return out
}

func TestMemoryIndexSearchOrdering(t *testing.T) {
	idx, err := NewMemoryIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	// Similarities against query (1,0): a=1.0, b=0.0, c≈0.707
	err = idx.Add(ctx, []string{"a", "b", "c"}, [][]float32{
		unit(1, 0),
		unit(0, 1),
		unit(1, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	results, err := idx.Search(ctx, unit(1, 0), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].ID != "a" || results[1].ID != "c" {
		t.Errorf("results = %+v, want [a c]", results)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("scores not descending: %v then %v", results[0].Score, results[1].Score)
	}
}

func TestMemoryIndexTiesKeepInsertionOrder(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	v := unit(1, 1)
	if err := idx.Add(ctx, []string{"first", "second"}, [][]float32{v, v}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		results, err := idx.Search(ctx, unit(1, 0), 2)
		if err != nil {
			t.Fatal(err)
		}
		got := []string{results[0].ID, results[1].ID}
		if !reflect.DeepEqual(got, []string{"first", "second"}) {
			t.Fatalf("call %d: tie order = %v, want insertion order", i, got)
		}
	}
}

func TestMemoryIndexEmpty(t *testing.T) {
	idx, _ := NewMemoryIndex(3)
	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if results != nil {
		t.Errorf("empty index should return nil, got %v", results)
	}
}

func TestMemoryIndexDimensionMismatch(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	if err := idx.Add(ctx, []string{"a"}, [][]float32{{1, 2, 3}}); err == nil {
		t.Error("expected dimension mismatch on Add")
	}
	if _, err := idx.Search(ctx, []float32{1}, 1); err == nil {
		t.Error("expected dimension mismatch on Search")
	}
}

func TestMemoryIndexKLargerThanSize(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Add(ctx, []string{"a"}, [][]float32{unit(1, 0)})
	results, err := idx.Search(ctx, unit(1, 0), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("len = %d, want 1", len(results))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := []float32{0.1, -0.5, 2.25}
	got := Decode(Encode(v))
	if !reflect.DeepEqual(got, v) {
		t.Errorf("round trip = %v, want %v", got, v)
	}
}

func TestDistanceToSimilarity(t *testing.T) {
	// Identical unit vectors: d²=0 → similarity 1. Orthogonal: d²=2 → 0.
	if got := DistanceToSimilarity(0); got != 1 {
		t.Errorf("DistanceToSimilarity(0) = %v", got)
	}
	if got := DistanceToSimilarity(2); got != 0 {
		t.Errorf("DistanceToSimilarity(2) = %v", got)
	}
}
