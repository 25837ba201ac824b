package pipeline

import (
	"testing"

	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/models"
)

func newTestClassifier() *Classifier {
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	return NewClassifier(&cfg.Pipeline)
}

func TestClassifyPrimaryTags(t *testing.T) {
	c := newTestClassifier()
	tests := []struct {
		text string
		want models.Tag
	}{
		{"Metals can fail under stress", models.TagFact},
		{"Maybe this depends on temperature", models.TagAssumption},
		{"I think it is related", models.TagAssumption},
		{"The cause is unknown", models.TagUnknown},
		{"We are not sure about the alloy", models.TagUnknown},
	}
	for _, tt := range tests {
		stmt := c.Classify(tt.text)
		if !stmt.Has(tt.want) {
			t.Errorf("Classify(%q) tags = %v, want %v", tt.text, stmt.Tags, tt.want)
		}
	}
}

func TestClassifyAssumptionBeatsUnknown(t *testing.T) {
	c := newTestClassifier()
	stmt := c.Classify("Maybe the cause is unknown")
	if !stmt.Has(models.TagAssumption) {
		t.Errorf("assumption check should take priority, tags = %v", stmt.Tags)
	}
	if stmt.Has(models.TagUnknown) {
		t.Errorf("primary tag must be exclusive, tags = %v", stmt.Tags)
	}
}

func TestClassifyAdditiveTags(t *testing.T) {
	c := newTestClassifier()
	stmt := c.Classify("This could cause harm?")
	for _, want := range []models.Tag{models.TagFact, models.TagHypothesis, models.TagQuestion} {
		if !stmt.Has(want) {
			t.Errorf("Classify tags = %v, missing %v", stmt.Tags, want)
		}
	}
}

func TestClassifySpeculation(t *testing.T) {
	c := newTestClassifier()
	stmt := c.Classify("Imagine a world without friction")
	if !stmt.Has(models.TagSpeculation) {
		t.Errorf("tags = %v, missing speculation", stmt.Tags)
	}
	if !stmt.Has(models.TagFact) {
		t.Errorf("speculation is additive; primary tag should still be fact, tags = %v", stmt.Tags)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := newTestClassifier()
	if stmt := c.Classify("PROBABLY yes"); !stmt.Has(models.TagAssumption) {
		t.Errorf("trigger match should be case-insensitive, tags = %v", stmt.Tags)
	}
}
