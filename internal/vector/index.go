// Package vector provides vector indexing and similarity search over
// normalized embeddings.
package vector

import "context"

// Index defines vector storage and similarity search. Implementations are
// append-only: a corpus change is handled by building a fresh index and
// swapping handles, never by mutating a served one.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Size() int
	Close() error
}

// Result is a single vector search hit. Score is similarity-oriented:
// inner product over unit vectors, so higher = more relevant.
type Result struct {
	ID    string
	Score float64
}
