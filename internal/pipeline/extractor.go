package pipeline

import (
	"strings"

	"github.com/hyperjump/kaiseki/internal/config"
)

// Extractor scans stabilized observations for axioms, risk flags, and
// ethical flags. A statement may land in more than one list.
type Extractor struct {
	rule          string
	minWords      int
	absolute      []string
	riskTriggers  []string
	ethicTriggers []string
}

// NewExtractor creates an extractor from the configured rule tables.
// cfg.AxiomRule selects the axiom heuristic; the two historical rules are
// mutually inconsistent, so exactly one is active per deployment.
func NewExtractor(cfg *config.PipelineConfig) *Extractor {
	return &Extractor{
		rule:          cfg.AxiomRule,
		minWords:      cfg.AxiomMinWords,
		absolute:      lowerAll(cfg.AbsoluteTriggers),
		riskTriggers:  lowerAll(cfg.RiskTriggers),
		ethicTriggers: lowerAll(cfg.EthicalTriggers),
	}
}

// Extract returns the axiom, risk, and ethical lists for the given
// observations. The three lists are independent.
func (e *Extractor) Extract(observations []string) (axioms, risks, ethics []string) {
	axioms = []string{}
	risks = []string{}
	ethics = []string{}
	for _, obs := range observations {
		lower := strings.ToLower(obs)
		if e.isAxiom(obs, lower) {
			axioms = append(axioms, obs)
		}
		if containsAny(lower, e.riskTriggers) {
			risks = append(risks, obs)
		}
		if containsAny(lower, e.ethicTriggers) {
			ethics = append(ethics, obs)
		}
	}
	return axioms, risks, ethics
}

func (e *Extractor) isAxiom(obs, lower string) bool {
	if e.rule == config.AxiomRuleLength {
		return len(strings.Fields(obs)) > e.minWords
	}
	return containsAny(lower, e.absolute)
}
