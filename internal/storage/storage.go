// Package storage defines the persistence interface for indexed corpus
// documents and their embedded chunks.
package storage

import (
	"context"

	"github.com/hyperjump/kaiseki/internal/models"
)

// Storage persists documents and chunks between runs so an index can be
// rebuilt without re-extracting or re-embedding unchanged files.
type Storage interface {
	// Document operations
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context) ([]*models.Document, error)

	// Chunk operations
	ReplaceChunks(ctx context.Context, docID string, chunks []*models.DocumentChunk) error
	ListChunksByDocument(ctx context.Context, docID string) ([]*models.DocumentChunk, error)
	ListChunks(ctx context.Context) ([]*models.DocumentChunk, error)

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	// Clear removes all documents and chunks, for full rebuilds.
	Clear(ctx context.Context) error

	Close() error
}
