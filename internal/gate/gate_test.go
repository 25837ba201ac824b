package gate

import (
	"testing"

	"github.com/hyperjump/kaiseki/internal/config"
)

func newTestGate(keywords ...string) *Gate {
	return New(&config.GateConfig{PrivateKeywords: keywords})
}

func TestIsPrivateMatch(t *testing.T) {
	g := newTestGate("titan alloy", "project himawari")
	if !g.IsPrivate("tell me about titan alloy") {
		t.Error("expected private-domain match")
	}
	if !g.IsPrivate("What does PROJECT HIMAWARI cover?") {
		t.Error("match should be case-insensitive")
	}
}

func TestIsPrivateNoMatch(t *testing.T) {
	g := newTestGate("titan alloy")
	if g.IsPrivate("what is the capital of France") {
		t.Error("general question should not be private")
	}
}

func TestIsPrivateEmptyKeywordSet(t *testing.T) {
	g := newTestGate()
	if g.IsPrivate("tell me about titan alloy") {
		t.Error("empty keyword set must never match")
	}
}

func TestIsPrivateIgnoresBlankKeywords(t *testing.T) {
	g := newTestGate("  ", "alloy")
	if g.IsPrivate("completely unrelated") {
		t.Error("blank keyword should not match everything")
	}
	if !g.IsPrivate("an alloy question") {
		t.Error("non-blank keyword should still match")
	}
}
