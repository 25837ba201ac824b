package pipeline

import "strings"

// Rectify removes exact-duplicate entries from observations: case-sensitive
// equality on the trimmed string, not semantic dedup. First occurrence wins.
// The returned set's iteration order is part of no contract; downstream
// consumers must treat it as order-independent.
//
// Rectify is idempotent: rectifying an already-rectified set returns an equal
// set.
func Rectify(observations []string) []string {
	seen := make(map[string]bool, len(observations))
	rectified := make([]string, 0, len(observations))
	for _, obs := range observations {
		key := strings.TrimSpace(obs)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		rectified = append(rectified, key)
	}
	return rectified
}

// Stabilized is the fixed contract surface between rectification and the
// extractors. It applies no further transformation: no re-sort, no re-filter.
type Stabilized struct {
	StableInterpretation []string
	UncertaintyFlags     []string
}

// Stabilize wraps the rectified observation set and the gap list into the
// stable named structure consumed by the axiom and flag extractors.
func Stabilize(observations, gaps []string) Stabilized {
	return Stabilized{
		StableInterpretation: observations,
		UncertaintyFlags:     gaps,
	}
}
