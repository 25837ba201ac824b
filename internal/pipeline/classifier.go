package pipeline

import (
	"strings"

	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/models"
)

// Classifier assigns tags to statements by case-insensitive substring
// containment against configured trigger tables.
type Classifier struct {
	assumption  []string
	unknown     []string
	hypothesis  []string
	speculation []string
}

// NewClassifier creates a classifier from the configured trigger tables.
func NewClassifier(cfg *config.PipelineConfig) *Classifier {
	return &Classifier{
		assumption:  lowerAll(cfg.AssumptionTriggers),
		unknown:     lowerAll(cfg.UnknownTriggers),
		hypothesis:  lowerAll(cfg.HypothesisTriggers),
		speculation: lowerAll(cfg.SpeculationTriggers),
	}
}

// Classify tags a single statement. The primary tag is exactly one of
// assumption, unknown, or fact, checked in that order; hypothesis,
// speculation, and question tags are additive and independent of the
// primary tag.
func (c *Classifier) Classify(text string) models.Statement {
	stmt := models.Statement{Text: text}
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, c.assumption):
		stmt.AddTag(models.TagAssumption)
	case containsAny(lower, c.unknown):
		stmt.AddTag(models.TagUnknown)
	default:
		stmt.AddTag(models.TagFact)
	}

	if containsAny(lower, c.hypothesis) {
		stmt.AddTag(models.TagHypothesis)
	}
	if containsAny(lower, c.speculation) {
		stmt.AddTag(models.TagSpeculation)
	}
	if strings.Contains(text, "?") {
		stmt.AddTag(models.TagQuestion)
	}
	return stmt
}

// ClassifyAll classifies every segment in order.
func (c *Classifier) ClassifyAll(segments []string) []models.Statement {
	statements := make([]models.Statement, 0, len(segments))
	for _, s := range segments {
		statements = append(statements, c.Classify(s))
	}
	return statements
}

func containsAny(lower string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func lowerAll(triggers []string) []string {
	out := make([]string, len(triggers))
	for i, t := range triggers {
		out[i] = strings.ToLower(t)
	}
	return out
}
