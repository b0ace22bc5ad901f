package similarity

import "math"

// Cosine returns the cosine similarity of two vectors, in [-1, 1].
// Vectors of unequal length are compared over their common prefix.
// If either vector has zero magnitude the similarity is 0.
func Cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float32
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	// Can't score a zero vector
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / float32(math.Sqrt(float64(normA))*math.Sqrt(float64(normB)))
}
