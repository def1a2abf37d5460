package search

import "math"

// CosineSimilarity computes the cosine of the angle between two vectors:
// dot(a, b) / (‖a‖·‖b‖). The result is clamped to [-1, 1] against
// floating-point drift. A zero-magnitude operand, or vectors of different
// lengths, score 0.0 ("unrelated") rather than propagating an error.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return float32(score)
}

// scoreAll scores every corpus vector against the query vector, preserving
// corpus order.
func scoreAll(query []float32, corpus [][]float32) []float32 {
	scores := make([]float32, len(corpus))
	for i, vec := range corpus {
		scores[i] = CosineSimilarity(query, vec)
	}
	return scores
}
