package generation

import (
	"context"

	"github.com/hyperjump/kaiseki/pkg/utils"
)

// MockGenerator is a deterministic generator for tests and offline runs. It
// echoes a fixed response, or a summary of the user prompt when none is set.
type MockGenerator struct {
	response string
}

// NewMockGenerator returns a generator that always responds with response.
// An empty response echoes a truncated copy of the user prompt instead.
func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{response: response}
}

// Generate returns the canned response.
func (g *MockGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	if g.response != "" {
		return g.response, nil
	}
	return utils.Truncate(user, 200), nil
}

// Close is a no-op for MockGenerator.
func (g *MockGenerator) Close() error {
	return nil
}
