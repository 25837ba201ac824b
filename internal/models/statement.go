// Package models defines core data structures for statements, documents, and answers.
package models

// Tag is a classification label attached to a statement.
type Tag string

const (
	TagFact        Tag = "fact"
	TagAssumption  Tag = "assumption"
	TagUnknown     Tag = "unknown"
	TagHypothesis  Tag = "hypothesis"
	TagSpeculation Tag = "speculation"
	TagQuestion    Tag = "question"
	TagAxiom       Tag = "axiom"
	TagRisk        Tag = "risk"
	TagEthical     Tag = "ethical"
)

// Statement is a single classified statement unit. Immutable once classified;
// Tags is the union of all classification passes that touched it.
type Statement struct {
	Text string `json:"text"`
	Tags []Tag  `json:"tags"`
}

// Has reports whether the statement carries the given tag.
func (s *Statement) Has(tag Tag) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends tag if not already present.
func (s *Statement) AddTag(tag Tag) {
	if !s.Has(tag) {
		s.Tags = append(s.Tags, tag)
	}
}

// PipelineOutput aggregates every stage's output for one input text.
// Created per request, never persisted.
type PipelineOutput struct {
	// Primary classification (segmenter + classifier).
	Facts       []string `json:"facts"`
	Assumptions []string `json:"assumptions"`
	Unknowns    []string `json:"unknowns"`

	// Rectified and stabilized observations. Iteration order of
	// StableInterpretation is unspecified; consumers must not rely on it.
	StableInterpretation []string `json:"stable_interpretation"`
	UncertaintyFlags     []string `json:"uncertainty_flags"`

	// Axiom and flag extraction over the stabilized set.
	Axioms       []string `json:"axioms"`
	RiskFlags    []string `json:"risk_flags"`
	EthicalFlags []string `json:"ethical_flags"`

	// Final verification pass and additive output classification.
	VerifiedInterpretation []string `json:"verified_interpretation"`
	Hypotheses             []string `json:"hypotheses"`
	Speculation            []string `json:"speculation"`
	Questions              []string `json:"questions"`

	// Statements carries the full multi-tag view of every segment.
	Statements []Statement `json:"statements"`
}
