// Package analyze orchestrates one analysis request: classification,
// domain gating, retrieval, and answer composition.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/composer"
	"github.com/hyperjump/kaiseki/internal/gate"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/pipeline"
	"github.com/hyperjump/kaiseki/internal/retrieval"
	"github.com/hyperjump/kaiseki/internal/storage"
)

// Service runs the full analysis flow. The pipeline always runs; retrieval
// and composition only run when a question was asked, and retrieval only
// consults the corpus for in-domain questions.
type Service struct {
	pipeline *pipeline.Pipeline
	gate     *gate.Gate
	engine   *retrieval.Engine
	composer *composer.Composer
	storage  storage.Storage
	logger   *zap.Logger
}

// NewService creates the analysis service.
func NewService(
	p *pipeline.Pipeline,
	g *gate.Gate,
	engine *retrieval.Engine,
	comp *composer.Composer,
	store storage.Storage,
	logger *zap.Logger,
) *Service {
	return &Service{
		pipeline: p,
		gate:     g,
		engine:   engine,
		composer: comp,
		storage:  store,
		logger:   logger,
	}
}

// Analyze validates the request and runs it end to end. Retrieval failures
// degrade the answer to general knowledge with an explanatory note;
// generation failures are fatal because there is no answer to fall back to.
func (s *Service) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The article is the analyzed text when present; a bare question is
	// classified directly.
	text := req.Article
	if strings.TrimSpace(text) == "" {
		text = req.Question
	}
	resp := &models.AnalyzeResponse{
		Analysis: s.pipeline.Run(text),
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		resp.QueryTimeMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	resp.PrivateDomain = s.gate.IsPrivate(question)

	var results []*models.RetrievalResult
	if resp.PrivateDomain {
		var err error
		results, err = s.engine.Retrieve(ctx, question, req.TopK)
		switch {
		case err != nil:
			s.logger.Warn("retrieval failed, degrading to general knowledge", zap.Error(err))
			resp.Notes = append(resp.Notes, "document retrieval unavailable; answered from general knowledge")
			results = nil
		case len(results) == 0:
			resp.Notes = append(resp.Notes, "no documents available")
		}
	}

	answer, err := s.composer.Compose(ctx, question, req.Article, results)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	resp.Answer = answer
	resp.QueryTimeMS = time.Since(start).Milliseconds()

	s.logger.Debug("analysis complete",
		zap.Bool("private_domain", resp.PrivateDomain),
		zap.String("confidence", answer.Confidence),
		zap.Int("citations", len(answer.Citations)),
		zap.Int64("elapsed_ms", resp.QueryTimeMS),
	)
	return resp, nil
}

// Status reports corpus and index state for the status endpoint.
type Status struct {
	IndexReady     bool     `json:"index_ready"`
	Documents      int      `json:"documents"`
	Chunks         int      `json:"chunks"`
	StoredDocs     int64    `json:"stored_documents"`
	StoredChunks   int64    `json:"stored_chunks"`
	DomainKeywords []string `json:"domain_keywords"`
}

// Status returns current index and storage counts.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	storedDocs, err := s.storage.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	storedChunks, err := s.storage.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	return &Status{
		IndexReady:     s.engine.Ready(),
		Documents:      s.engine.DocumentCount(),
		Chunks:         s.engine.Size(),
		StoredDocs:     storedDocs,
		StoredChunks:   storedChunks,
		DomainKeywords: s.gate.Keywords(),
	}, nil
}

// Reindex rebuilds the corpus index. ErrIndexBuild from an empty corpus is
// passed through so the HTTP layer can report it as a no-corpus condition.
func (s *Service) Reindex(ctx context.Context) error {
	if err := s.engine.BuildIndex(ctx); err != nil {
		if errors.Is(err, models.ErrIndexBuild) {
			return err
		}
		return fmt.Errorf("reindex: %w", err)
	}
	s.logger.Info("reindex complete",
		zap.Int("documents", s.engine.DocumentCount()),
		zap.Int("chunks", s.engine.Size()),
	)
	return nil
}
