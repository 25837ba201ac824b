package vector

import "math"

// InnerProduct returns the inner product of two vectors (for unit vectors
// this equals cosine similarity). Mismatched or empty vectors score 0.
func InnerProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i] * b[i])
	}
	return dot
}

// CosineSimilarity returns cosine similarity between two unit vectors,
// clamped to [0, 1].
func CosineSimilarity(a, b []float32) float64 {
	return math.Max(0, math.Min(1, InnerProduct(a, b)))
}

// DistanceToSimilarity converts a squared Euclidean distance over unit
// vectors to cosine similarity (d² = 2 - 2·cosθ). Tier comparisons are
// always similarity-oriented, so any distance-based backend must pass
// through here before scores leave the package.
func DistanceToSimilarity(squaredDistance float64) float64 {
	return 1 - squaredDistance/2
}
