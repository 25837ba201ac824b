package models

import (
	"fmt"
	"strings"
)

// Confidence labels produced by the composer.
const (
	ConfidenceHighHybrid  = "HIGH / HYBRID"
	ConfidenceMixed       = "MIXED"
	ConfidenceGeneralOnly = "GENERAL ONLY"
)

// Citation points at a source document with the similarity score that
// justified citing it.
type Citation struct {
	SourceFile string  `json:"source_file"`
	Score      float64 `json:"score"`
}

// ComposedAnswer is the merged general-knowledge + document-evidence answer.
type ComposedAnswer struct {
	Text       string     `json:"text"`
	Confidence string     `json:"confidence"`
	Citations  []Citation `json:"citations,omitempty"`
}

// AnalyzeRequest is the input to the analysis endpoint. Either Question or
// Article must be set; Article alone runs the classification pipeline without
// an answer.
type AnalyzeRequest struct {
	Question string `json:"question,omitempty"`
	Article  string `json:"article,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
}

// Validate checks the request and clamps TopK to a sane range. TopK stays
// zero when unset so the retrieval engine applies its configured default.
// Returns ErrEmptyInput when neither question nor article is given.
func (r *AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" && strings.TrimSpace(r.Article) == "" {
		return fmt.Errorf("question or article is required: %w", ErrEmptyInput)
	}
	if r.TopK < 0 {
		r.TopK = 0
	}
	if r.TopK > 20 {
		r.TopK = 20
	}
	return nil
}

// AnalyzeResponse is the analysis endpoint output: the classification
// breakdown plus, when a question was asked, the composed answer.
type AnalyzeResponse struct {
	Analysis      *PipelineOutput `json:"analysis"`
	Answer        *ComposedAnswer `json:"answer,omitempty"`
	PrivateDomain bool            `json:"private_domain"`
	// Notes carries degradation messages ("no documents available",
	// retrieval failures) so a lowered confidence is always explainable.
	Notes       []string `json:"notes,omitempty"`
	QueryTimeMS int64    `json:"query_time_ms"`
}
