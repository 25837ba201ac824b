package pipeline

import (
	"strings"

	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/models"
)

// Pipeline runs the full staged classification chain over raw text.
// All stages are pure string processing; a failure here on well-formed input
// is a programming bug, not an operational condition.
type Pipeline struct {
	classifier *Classifier
	extractor  *Extractor
}

// New creates a pipeline from the configured rule tables.
func New(cfg *config.PipelineConfig) *Pipeline {
	return &Pipeline{
		classifier: NewClassifier(cfg),
		extractor:  NewExtractor(cfg),
	}
}

// Run pushes text through segmentation, classification, rectification,
// stabilization, extraction, and final verification, and returns the
// aggregate of every stage's output.
func (p *Pipeline) Run(text string) *models.PipelineOutput {
	out := &models.PipelineOutput{
		Facts:       []string{},
		Assumptions: []string{},
		Unknowns:    []string{},
	}

	segments := Segment(text)
	out.Statements = p.classifier.ClassifyAll(segments)

	for i := range out.Statements {
		stmt := &out.Statements[i]
		switch {
		case stmt.Has(models.TagAssumption):
			out.Assumptions = append(out.Assumptions, stmt.Text)
		case stmt.Has(models.TagUnknown):
			out.Unknowns = append(out.Unknowns, stmt.Text)
		default:
			out.Facts = append(out.Facts, stmt.Text)
		}
	}

	stable := Stabilize(Rectify(out.Facts), out.Unknowns)
	out.StableInterpretation = stable.StableInterpretation
	out.UncertaintyFlags = stable.UncertaintyFlags

	out.Axioms, out.RiskFlags, out.EthicalFlags = p.extractor.Extract(stable.StableInterpretation)
	p.tagExtracted(out)

	// Second dedup pass over the stabilized set; idempotent by construction.
	out.VerifiedInterpretation = Rectify(stable.StableInterpretation)

	out.Hypotheses = []string{}
	out.Speculation = []string{}
	out.Questions = []string{}
	for _, fact := range out.VerifiedInterpretation {
		stmt := p.classifier.Classify(fact)
		if stmt.Has(models.TagHypothesis) {
			out.Hypotheses = append(out.Hypotheses, fact)
		}
		if stmt.Has(models.TagSpeculation) {
			out.Speculation = append(out.Speculation, fact)
		}
		if stmt.Has(models.TagQuestion) {
			out.Questions = append(out.Questions, fact)
		}
	}
	return out
}

// tagExtracted adds axiom/risk/ethical tags onto the corresponding
// statements so Statements carries the union of all passes.
func (p *Pipeline) tagExtracted(out *models.PipelineOutput) {
	tagMatching := func(texts []string, tag models.Tag) {
		for _, t := range texts {
			for i := range out.Statements {
				if strings.TrimSpace(out.Statements[i].Text) == t {
					out.Statements[i].AddTag(tag)
				}
			}
		}
	}
	tagMatching(out.Axioms, models.TagAxiom)
	tagMatching(out.RiskFlags, models.TagRisk)
	tagMatching(out.EthicalFlags, models.TagEthical)
}
