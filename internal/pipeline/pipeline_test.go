package pipeline

import (
	"reflect"
	"testing"

	"github.com/hyperjump/kaiseki/internal/models"
)

func newTestPipeline() *Pipeline {
	return New(defaultPipelineConfig())
}

func TestRunClassifiesFactsAndAssumptions(t *testing.T) {
	out := newTestPipeline().Run("Metals can fail under stress. Maybe this depends on temperature.")
	if !reflect.DeepEqual(out.Facts, []string{"Metals can fail under stress"}) {
		t.Errorf("facts = %v", out.Facts)
	}
	if !reflect.DeepEqual(out.Assumptions, []string{"Maybe this depends on temperature"}) {
		t.Errorf("assumptions = %v", out.Assumptions)
	}
	if len(out.Unknowns) != 0 {
		t.Errorf("unknowns = %v", out.Unknowns)
	}
}

func TestRunDeduplicatesFacts(t *testing.T) {
	out := newTestPipeline().Run("A. A. B.")
	if len(out.StableInterpretation) != 2 {
		t.Fatalf("stable interpretation = %v, want 2 members", out.StableInterpretation)
	}
	if !reflect.DeepEqual(sortedCopy(out.StableInterpretation), []string{"A", "B"}) {
		t.Errorf("stable interpretation members = %v, want {A, B}", out.StableInterpretation)
	}
	// Verification pass is idempotent over the already-rectified set.
	if !reflect.DeepEqual(sortedCopy(out.VerifiedInterpretation), sortedCopy(out.StableInterpretation)) {
		t.Errorf("verified = %v, stable = %v", out.VerifiedInterpretation, out.StableInterpretation)
	}
}

func TestRunTagAdditivity(t *testing.T) {
	out := newTestPipeline().Run("This could cause harm?")
	if len(out.Statements) != 1 {
		t.Fatalf("statements = %v", out.Statements)
	}
	stmt := out.Statements[0]
	for _, want := range []models.Tag{models.TagFact, models.TagHypothesis, models.TagRisk, models.TagQuestion} {
		if !stmt.Has(want) {
			t.Errorf("statement tags = %v, missing %v", stmt.Tags, want)
		}
	}
	if len(out.Hypotheses) != 1 || len(out.Questions) != 1 {
		t.Errorf("hypotheses = %v, questions = %v", out.Hypotheses, out.Questions)
	}
	if len(out.RiskFlags) != 1 {
		t.Errorf("risk flags = %v", out.RiskFlags)
	}
}

func TestRunGapsPassThrough(t *testing.T) {
	out := newTestPipeline().Run("The failure mode is unknown. The failure mode is unknown.")
	if len(out.UncertaintyFlags) != 2 {
		t.Errorf("gaps must pass through without dedup, got %v", out.UncertaintyFlags)
	}
}

func TestRunSpeculationAndAxioms(t *testing.T) {
	out := newTestPipeline().Run("Imagine the alloy never fails. Steel is strong.")
	if len(out.Axioms) != 1 {
		t.Errorf("axioms = %v", out.Axioms)
	}
	if len(out.Speculation) != 1 {
		t.Errorf("speculation = %v", out.Speculation)
	}
}

func TestRunEmptyText(t *testing.T) {
	out := newTestPipeline().Run("")
	if len(out.Facts)+len(out.Assumptions)+len(out.Unknowns) != 0 {
		t.Errorf("empty input should yield empty lists: %+v", out)
	}
	if out.Facts == nil || out.Hypotheses == nil {
		t.Error("output lists should be empty, not nil, for clean JSON")
	}
}
