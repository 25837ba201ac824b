// Package generation produces natural-language answers through an external
// chat-completion service.
package generation

import (
	"context"
	"fmt"

	"github.com/hyperjump/kaiseki/internal/config"
)

// Generator produces a completion for a system/user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Close() error
}

// NewFromConfig builds the generator for the configured provider.
func NewFromConfig(cfg config.GenerationConfig) (Generator, error) {
	switch cfg.Provider {
	case "mock":
		return NewMockGenerator(""), nil
	case "openai", "":
		return NewOpenAIGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}
