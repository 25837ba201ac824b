// Package gate decides whether a query belongs to the private document domain.
package gate

import (
	"strings"

	"github.com/hyperjump/kaiseki/internal/config"
)

// Gate routes queries between the private corpus and general knowledge.
// The keyword set is static for the process lifetime; matching is
// case-insensitive substring containment.
type Gate struct {
	keywords []string
}

// New creates a gate from the configured private-domain keywords.
func New(cfg *config.GateConfig) *Gate {
	keywords := make([]string, 0, len(cfg.PrivateKeywords))
	for _, k := range cfg.PrivateKeywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	return &Gate{keywords: keywords}
}

// IsPrivate reports whether the question touches the private domain.
// Returns true on the first keyword match; false when the keyword set is
// empty or nothing matches. Callers must not attempt retrieval when this
// returns false; document content is never searched for general queries.
func (g *Gate) IsPrivate(question string) bool {
	if len(g.keywords) == 0 {
		return false
	}
	lower := strings.ToLower(question)
	for _, k := range g.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the active keyword set.
func (g *Gate) Keywords() []string {
	return append([]string(nil), g.keywords...)
}
