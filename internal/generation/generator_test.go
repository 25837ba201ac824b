package generation

import (
	"context"
	"testing"

	"github.com/hyperjump/kaiseki/internal/config"
)

func TestMockGeneratorCannedResponse(t *testing.T) {
	g := NewMockGenerator("The hull is titanium.")
	got, err := g.Generate(context.Background(), "system", "user prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "The hull is titanium." {
		t.Errorf("got %q", got)
	}
}

func TestMockGeneratorEchoesPrompt(t *testing.T) {
	g := NewMockGenerator("")
	got, err := g.Generate(context.Background(), "system", "what alloy is used?")
	if err != nil {
		t.Fatal(err)
	}
	if got != "what alloy is used?" {
		t.Errorf("got %q", got)
	}
}

func TestNewFromConfigMock(t *testing.T) {
	g, err := NewFromConfig(config.GenerationConfig{Provider: "mock"})
	if err != nil {
		t.Fatal(err)
	}
	if g == nil {
		t.Fatal("nil generator")
	}
}

func TestNewFromConfigUnknownProvider(t *testing.T) {
	if _, err := NewFromConfig(config.GenerationConfig{Provider: "bogus"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewFromConfigOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewFromConfig(config.GenerationConfig{Provider: "openai"}); err == nil {
		t.Error("expected error when no API key is configured")
	}
}
