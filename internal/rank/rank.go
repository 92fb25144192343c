// Package rank scores sections against a query embedding by cosine
// similarity.
package rank

import (
	"math"
	"sort"

	"github.com/rawcsav/Hinterview/internal/chunk"
)

// Scored pairs a section with its relatedness to the query.
type Scored struct {
	Section chunk.Section
	Score   float64
}

// Cosine returns the cosine similarity between two vectors. Mismatched or
// zero-norm vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
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

// TopN returns the min(n, len(candidates)) highest-scoring candidates in
// descending order. The sort is stable, so ties keep corpus order and
// repeated calls return identical results.
func TopN(query []float64, candidates []chunk.Section, n int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, s := range candidates {
		scored = append(scored, Scored{Section: s, Score: Cosine(query, s.Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if n >= 0 && n < len(scored) {
		scored = scored[:n]
	}
	return scored
}
