package embeddings

import "math"

// CosineDistance returns 1 - cosine similarity between two vectors, so
// smaller means more similar, matching the corpus store's distance ordering.
// Mismatched lengths or zero vectors yield the maximum distance 1.0.
func CosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 1.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
