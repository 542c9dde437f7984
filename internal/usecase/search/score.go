package search

import "math"

// cosineSimilarity returns dot(a,b) / (|a|*|b|). Zero-length and zero-norm
// inputs score 0.0 so unembedded profiles sink to the bottom instead of
// failing the request.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
