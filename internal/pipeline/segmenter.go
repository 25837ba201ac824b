// Package pipeline implements the staged statement-classification pipeline:
// segmentation, lexical classification, rectification, stabilization, axiom
// and flag extraction, and final verification.
package pipeline

import "strings"

// Segment splits raw text into candidate statement units on sentence-terminal
// punctuation, trimming whitespace and dropping empty fragments. This is a
// punctuation heuristic, not a parser: abbreviations and nested punctuation
// are split naively.
//
// Periods and exclamation points are dropped from the unit; a question mark is
// kept, since the classifier treats it as an interrogative marker rather than
// a plain terminator.
func Segment(text string) []string {
	var segments []string
	var current strings.Builder
	for _, r := range text {
		switch r {
		case '.', '!':
			flushSegment(&current, &segments)
		case '?':
			current.WriteRune(r)
			flushSegment(&current, &segments)
		default:
			current.WriteRune(r)
		}
	}
	flushSegment(&current, &segments)
	return segments
}

func flushSegment(current *strings.Builder, segments *[]string) {
	s := strings.TrimSpace(current.String())
	if s != "" {
		*segments = append(*segments, s)
	}
	current.Reset()
}
