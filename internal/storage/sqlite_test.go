package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/kaiseki/internal/models"
)

func TestSQLiteStorage_Documents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	doc := &models.Document{
		ID:          "doc1",
		Title:       "alloy_report.txt",
		SourcePath:  "/corpus/alloy_report.txt",
		SourceMtime: 1700000000,
		SourceSize:  1024,
	}
	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if doc.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetDocument(ctx, "doc1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "alloy_report.txt" || got.SourceMtime != 1700000000 {
		t.Errorf("got %+v", got)
	}

	// Save with the same ID replaces the record.
	doc.SourceMtime = 1700000050
	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetDocument(ctx, "doc1")
	if got.SourceMtime != 1700000050 {
		t.Errorf("expected updated mtime, got %d", got.SourceMtime)
	}

	list, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 doc, got %d", len(list))
	}

	if err := store.DeleteDocument(ctx, "doc1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetDocument(ctx, "doc1"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestSQLiteStorage_ChunksWithEmbeddings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	doc := &models.Document{ID: "d1", Title: "spec.txt", SourcePath: "/corpus/spec.txt"}
	_ = store.SaveDocument(ctx, doc)

	chunks := []*models.DocumentChunk{
		{ID: "d1_c0", DocumentID: "d1", SourceFile: "spec.txt", ChunkIndex: 0,
			Content: "chunk zero", Embedding: []float32{0.1, 0.2, 0.3}},
		{ID: "d1_c1", DocumentID: "d1", SourceFile: "spec.txt", ChunkIndex: 1,
			Content: "chunk one", Embedding: []float32{0.4, 0.5, 0.6}},
	}
	if err := store.ReplaceChunks(ctx, "d1", chunks); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListChunksByDocument(ctx, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(list))
	}
	if !reflect.DeepEqual(list[0].Embedding, []float32{0.1, 0.2, 0.3}) {
		t.Errorf("embedding round trip failed: %v", list[0].Embedding)
	}
	if list[1].Content != "chunk one" {
		t.Errorf("got %q", list[1].Content)
	}

	// ReplaceChunks drops the old set.
	replacement := []*models.DocumentChunk{
		{ID: "d1_c0b", DocumentID: "d1", SourceFile: "spec.txt", ChunkIndex: 0, Content: "fresh"},
	}
	if err := store.ReplaceChunks(ctx, "d1", replacement); err != nil {
		t.Fatal(err)
	}
	list, _ = store.ListChunksByDocument(ctx, "d1")
	if len(list) != 1 || list[0].Content != "fresh" {
		t.Errorf("expected single fresh chunk, got %+v", list)
	}
	if list[0].Embedding != nil {
		t.Errorf("chunk without embedding should round trip as nil, got %v", list[0].Embedding)
	}
}

func TestSQLiteStorage_ListChunksOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	_ = store.SaveDocument(ctx, &models.Document{ID: "b", SourcePath: "/c/b.txt"})
	_ = store.SaveDocument(ctx, &models.Document{ID: "a", SourcePath: "/c/a.txt"})
	_ = store.ReplaceChunks(ctx, "b", []*models.DocumentChunk{
		{ID: "b0", DocumentID: "b", SourceFile: "b.txt", ChunkIndex: 0, Content: "b zero"},
	})
	_ = store.ReplaceChunks(ctx, "a", []*models.DocumentChunk{
		{ID: "a1", DocumentID: "a", SourceFile: "a.txt", ChunkIndex: 1, Content: "a one"},
		{ID: "a0", DocumentID: "a", SourceFile: "a.txt", ChunkIndex: 0, Content: "a zero"},
	})

	all, err := store.ListChunks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(all))
	for i, c := range all {
		ids[i] = c.ID
	}
	want := []string{"a0", "a1", "b0"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestSQLiteStorage_CountsAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "count.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	n, err := store.CountDocuments(ctx)
	if err != nil || n != 0 {
		t.Errorf("CountDocuments: %v, %d", err, n)
	}
	_ = store.SaveDocument(ctx, &models.Document{ID: "x", SourcePath: "/c/x.txt"})
	_ = store.ReplaceChunks(ctx, "x", []*models.DocumentChunk{
		{ID: "x0", DocumentID: "x", SourceFile: "x.txt", ChunkIndex: 0, Content: "c"},
	})

	if n, _ = store.CountDocuments(ctx); n != 1 {
		t.Errorf("expected 1 document, got %d", n)
	}
	if n, _ = store.CountChunks(ctx); n != 1 {
		t.Errorf("expected 1 chunk, got %d", n)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ = store.CountDocuments(ctx); n != 0 {
		t.Errorf("expected 0 documents after Clear, got %d", n)
	}
	if n, _ = store.CountChunks(ctx); n != 0 {
		t.Errorf("expected 0 chunks after Clear, got %d", n)
	}
}
