package vectorstore

import (
	"math"
	"sort"

	"yatra/internal/domain"
)

// Storage persists vectors and supports similarity search.
type Storage = domain.VectorStore

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero vector.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank scores every vector against query and returns the best topK
// results in non-increasing score order. Ties keep insertion order.
func Rank(query []float32, vectors [][]float32, chunks []domain.Chunk, topK int) []domain.SearchResult {
	if topK <= 0 {
		topK = 5
	}
	idxs := make([]int, len(vectors))
	scores := make([]float64, len(vectors))
	for i := range vectors {
		idxs[i] = i
		scores[i] = Cosine(vectors[i], query)
	}
	sort.SliceStable(idxs, func(i, j int) bool { return scores[idxs[i]] > scores[idxs[j]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, j := range idxs[:topK] {
		results = append(results, domain.SearchResult{Chunk: chunks[j], Score: scores[j]})
	}
	return results
}
