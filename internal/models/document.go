package models

import "time"

// Document represents one corpus file that was indexed.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SourcePath  string    `json:"source_path"`
	SourceMtime int64     `json:"source_mtime"`
	SourceSize  int64     `json:"source_size"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentChunk is a bounded-size slice of a source document, the unit of
// embedding and retrieval. Immutable after index build; lifetime ends at the
// next rebuild.
type DocumentChunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	SourceFile string    `json:"source_file"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// RetrievalResult is one scored retrieval hit. Produced per query and
// discarded after the request. Score is similarity-oriented: higher = more
// relevant.
type RetrievalResult struct {
	Chunk *DocumentChunk `json:"chunk"`
	Score float64        `json:"score"`
}
