// Package composer merges general knowledge with retrieved document evidence
// into a single answer, labeled with a confidence tier.
package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/generation"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

const systemPrompt = "You are a careful analyst. Answer the question using " +
	"your general knowledge. When document excerpts are provided, ground " +
	"specifics in them and do not contradict them. Be concise and state " +
	"uncertainty explicitly."

// Composer decides how much weight retrieved documents carry in the answer.
// The top similarity score picks the tier; the tier picks the prompt.
type Composer struct {
	generator generation.Generator
	cfg       config.ComposerConfig
}

// New creates a composer using the given generator and thresholds.
func New(generator generation.Generator, cfg config.ComposerConfig) *Composer {
	return &Composer{generator: generator, cfg: cfg}
}

// Confidence returns the tier label for a top similarity score. The high
// boundary comparator is configurable; the mixed boundary is inclusive on
// the high side and exclusive on the low side.
func (c *Composer) Confidence(topScore float64, hasResults bool) string {
	if !hasResults {
		return models.ConfidenceGeneralOnly
	}
	if c.cfg.InclusiveHigh {
		if topScore >= c.cfg.HighThreshold {
			return models.ConfidenceHighHybrid
		}
	} else if topScore > c.cfg.HighThreshold {
		return models.ConfidenceHighHybrid
	}
	if topScore > c.cfg.MixedThreshold {
		return models.ConfidenceMixed
	}
	return models.ConfidenceGeneralOnly
}

// Compose generates the answer for a question given its retrieval results
// and an optional article supplied with the request. The article is the
// primary evidence block in the prompt; internal document excerpts come
// after it and are treated as speculative. Results ordering is trusted: the
// first result's score decides the tier, and the tier decides how much of
// the retrieved evidence the answer discloses.
func (c *Composer) Compose(ctx context.Context, question, article string, results []*models.RetrievalResult) (*models.ComposedAnswer, error) {
	confidence := models.ConfidenceGeneralOnly
	if len(results) > 0 {
		confidence = c.Confidence(results[0].Score, true)
	}

	var prompt strings.Builder
	var citations []models.Citation

	article = strings.TrimSpace(article)
	if article != "" {
		prompt.WriteString("Article:\n")
		prompt.WriteString(article)
		prompt.WriteString("\n\n")
	}

	if confidence == models.ConfidenceGeneralOnly {
		prompt.WriteString("Question: ")
		prompt.WriteString(question)
		if article != "" {
			prompt.WriteString("\n\nNo relevant internal documents were found. Answer from the article and general knowledge.")
		} else {
			prompt.WriteString("\n\nNo relevant documents were found. Answer from general knowledge only.")
		}
	} else {
		// Mixed gets a quarter of the excerpt budget in the prompt; the
		// excerpts themselves are never disclosed below the high tier.
		excerptBudget := c.cfg.ExcerptMaxChars
		if confidence == models.ConfidenceMixed {
			excerptBudget = c.cfg.ExcerptMaxChars / 4
		}
		prompt.WriteString("Internal document excerpts (speculative):\n")
		for i, r := range results {
			excerpt := utils.Truncate(r.Chunk.Content, excerptBudget)
			fmt.Fprintf(&prompt, "[%d] (%s, similarity %.2f)\n%s\n\n", i+1, r.Chunk.SourceFile, r.Score, excerpt)
			citations = append(citations, models.Citation{
				SourceFile: r.Chunk.SourceFile,
				Score:      r.Score,
			})
		}
		prompt.WriteString("Question: ")
		prompt.WriteString(question)
		if confidence == models.ConfidenceMixed {
			prompt.WriteString("\n\nThe excerpts are only loosely related. Lean on general knowledge and use them where they genuinely apply.")
		} else {
			prompt.WriteString("\n\nGround your answer in the excerpts above, supplemented by general knowledge.")
		}
		if article != "" {
			prompt.WriteString(" Prefer the article over the internal documents where they disagree.")
		}
	}

	text, err := c.generator.Generate(ctx, systemPrompt, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("compose answer: %w", err)
	}

	// High discloses the top excerpt alongside the answer; Mixed notes the
	// partial support and withholds the excerpt.
	switch confidence {
	case models.ConfidenceHighHybrid:
		top := results[0]
		text += fmt.Sprintf("\n\nSupporting excerpt (%s):\n%s",
			top.Chunk.SourceFile, utils.Truncate(top.Chunk.Content, c.cfg.ExcerptMaxChars))
	case models.ConfidenceMixed:
		text += fmt.Sprintf("\n\nNote: only partially supported by internal documents (best match %s, similarity %.2f).",
			results[0].Chunk.SourceFile, results[0].Score)
	}

	return &models.ComposedAnswer{
		Text:       text,
		Confidence: confidence,
		Citations:  citations,
	}, nil
}
