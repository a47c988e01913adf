// ABOUTME: Cosine similarity over float64 vectors
// ABOUTME: Returns 0 for zero-norm vectors and mismatched dimensions, never NaN
package search

import "math"

// Cosine calculates cosine similarity between two vectors.
// Mismatched dimensions and zero-norm vectors score 0 rather than erroring,
// so a bad vector degrades a single comparison instead of the request.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
