package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/embedding"
	"github.com/hyperjump/kaiseki/internal/extract"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/storage"
	"github.com/hyperjump/kaiseki/internal/vector"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

// snapshot is one immutable serve state: a built index plus the chunk data
// its IDs point at. A rebuild assembles a fresh snapshot and swaps the
// pointer, so readers never see a half-built index.
type snapshot struct {
	index    *vector.MemoryIndex
	chunks   map[string]*models.DocumentChunk
	docCount int
}

// Engine builds the corpus index and answers similarity queries. Queries
// keep working against the previous snapshot while a rebuild runs.
type Engine struct {
	storage   storage.Storage
	embedder  embedding.Embedder
	extractor *extract.Extractor
	chunker   *Chunker
	corpus    config.CorpusConfig
	retrieval config.RetrievalConfig
	logger    *zap.Logger

	current atomic.Pointer[snapshot]
}

// NewEngine creates a retrieval engine with the given collaborators.
func NewEngine(
	store storage.Storage,
	embedder embedding.Embedder,
	extractor *extract.Extractor,
	corpus config.CorpusConfig,
	retrieval config.RetrievalConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		storage:   store,
		embedder:  embedder,
		extractor: extractor,
		chunker:   NewChunker(retrieval.ChunkSize, retrieval.ChunkOverlap),
		corpus:    corpus,
		retrieval: retrieval,
		logger:    logger,
	}
}

// docID returns a stable document ID for an absolute path, so re-indexing a
// file updates the same document.
func docID(absPath string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(absPath)))
	return "file:" + hex.EncodeToString(hash[:])
}

// BuildIndex scans the corpus directory, extracts and chunks every allowed
// file, embeds new or changed chunks, persists them, and swaps in a fresh
// snapshot. Files whose stored mtime and size are unchanged reuse their
// persisted embeddings. Returns ErrIndexBuild when no chunk survives.
func (e *Engine) BuildIndex(ctx context.Context) error {
	absDir, err := filepath.Abs(e.corpus.Path)
	if err != nil {
		return fmt.Errorf("corpus path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return fmt.Errorf("%w: stat corpus directory: %w", models.ErrIndexBuild, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", models.ErrIndexBuild, absDir)
	}

	var all []*models.DocumentChunk
	seen := make(map[string]bool)
	docCount := 0

	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !extensionAllowed(ext, e.corpus.Extensions) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		chunks, fileErr := e.indexFile(ctx, path, finfo)
		if fileErr != nil {
			return fileErr
		}
		seen[docID(path)] = true
		if len(chunks) > 0 {
			docCount++
			all = append(all, chunks...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	// Drop stored documents whose source files are gone.
	if docs, listErr := e.storage.ListDocuments(ctx); listErr == nil {
		for _, doc := range docs {
			if !seen[doc.ID] {
				if delErr := e.storage.DeleteDocument(ctx, doc.ID); delErr != nil {
					e.logger.Warn("delete stale document", zap.String("doc_id", doc.ID), zap.Error(delErr))
				}
			}
		}
	}

	if len(all) == 0 {
		return fmt.Errorf("%w: no indexable content under %s", models.ErrIndexBuild, absDir)
	}
	return e.swap(all, docCount)
}

// indexFile returns the index-ready chunks for one file, reusing persisted
// embeddings when the file is unchanged.
func (e *Engine) indexFile(ctx context.Context, path string, info os.FileInfo) ([]*models.DocumentChunk, error) {
	id := docID(path)
	mtime := info.ModTime().UnixNano()
	size := info.Size()

	if doc, err := e.storage.GetDocument(ctx, id); err == nil &&
		doc.SourcePath == path && doc.SourceMtime == mtime && doc.SourceSize == size {
		chunks, listErr := e.storage.ListChunksByDocument(ctx, id)
		if listErr == nil && allEmbedded(chunks) {
			e.logger.Debug("reusing unchanged file", zap.String("path", path))
			return chunks, nil
		}
	}

	text, err := e.extractor.Extract(path)
	if err != nil {
		e.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	text = utils.CollapseWhitespace(text)

	chunks := e.chunker.Chunk(id, filepath.Base(path), text)
	if e.retrieval.MinChunkChars > 0 {
		kept := chunks[:0]
		for _, ch := range chunks {
			if len(ch.Content) >= e.retrieval.MinChunkChars {
				ch.ChunkIndex = len(kept)
				kept = append(kept, ch)
			}
		}
		chunks = kept
	}
	if len(chunks) == 0 {
		e.logger.Debug("no usable chunks", zap.String("path", path))
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	embeddings, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", filepath.Base(path), err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	doc := &models.Document{
		ID:          id,
		Title:       filepath.Base(path),
		SourcePath:  path,
		SourceMtime: mtime,
		SourceSize:  size,
	}
	if err := e.storage.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if err := e.storage.ReplaceChunks(ctx, id, chunks); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}
	e.logger.Debug("indexed file", zap.String("path", path), zap.Int("chunks", len(chunks)))
	return chunks, nil
}

// LoadFromStorage rebuilds the serve snapshot from persisted chunks without
// touching the corpus directory or the embedder. Used at startup so a
// restart does not re-embed an unchanged corpus.
func (e *Engine) LoadFromStorage(ctx context.Context) error {
	chunks, err := e.storage.ListChunks(ctx)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}
	embedded := make([]*models.DocumentChunk, 0, len(chunks))
	docs := make(map[string]bool)
	for _, ch := range chunks {
		if ch.Embedding == nil {
			continue
		}
		embedded = append(embedded, ch)
		docs[ch.DocumentID] = true
	}
	if len(embedded) == 0 {
		return fmt.Errorf("%w: storage holds no embedded chunks", models.ErrIndexBuild)
	}
	return e.swap(embedded, len(docs))
}

// swap assembles a fresh snapshot from chunks and publishes it.
func (e *Engine) swap(chunks []*models.DocumentChunk, docCount int) error {
	dims := e.embedder.Dimensions()
	if len(chunks) > 0 && len(chunks[0].Embedding) > 0 {
		dims = len(chunks[0].Embedding)
	}
	idx, err := vector.NewMemoryIndex(dims)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	ids := make([]string, len(chunks))
	vecs := make([][]float32, len(chunks))
	byID := make(map[string]*models.DocumentChunk, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
		vecs[i] = ch.Embedding
		byID[ch.ID] = ch
	}
	if err := idx.Add(context.Background(), ids, vecs); err != nil {
		return fmt.Errorf("populate index: %w", err)
	}
	e.current.Store(&snapshot{index: idx, chunks: byID, docCount: docCount})
	e.logger.Info("index ready", zap.Int("documents", docCount), zap.Int("chunks", len(chunks)))
	return nil
}

// Retrieve returns the top-k most similar chunks for the query. A blank
// query or an engine with no built index yields no results rather than an
// error; embedding failures surface as ErrExternalService.
func (e *Engine) Retrieve(ctx context.Context, query string, topK int) ([]*models.RetrievalResult, error) {
	snap := e.current.Load()
	if snap == nil || snap.index.Size() == 0 {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = e.retrieval.TopK
	}

	qvec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := snap.index.Search(ctx, qvec, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]*models.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		chunk, ok := snap.chunks[h.ID]
		if !ok {
			continue
		}
		results = append(results, &models.RetrievalResult{Chunk: chunk, Score: h.Score})
	}
	return results, nil
}

// Ready reports whether a snapshot is available for queries.
func (e *Engine) Ready() bool {
	snap := e.current.Load()
	return snap != nil && snap.index.Size() > 0
}

// Size returns the number of indexed chunks.
func (e *Engine) Size() int {
	if snap := e.current.Load(); snap != nil {
		return snap.index.Size()
	}
	return 0
}

// DocumentCount returns the number of documents in the current snapshot.
func (e *Engine) DocumentCount() int {
	if snap := e.current.Load(); snap != nil {
		return snap.docCount
	}
	return 0
}

func allEmbedded(chunks []*models.DocumentChunk) bool {
	if len(chunks) == 0 {
		return false
	}
	for _, ch := range chunks {
		if ch.Embedding == nil {
			return false
		}
	}
	return true
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
