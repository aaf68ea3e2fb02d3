package index

import (
	"math"
	"sort"

	"github.com/cloo-solutions/quarry/internal/domain"
)

// Snapshot is an immutable loaded index. Queries search a snapshot; a rebuild
// produces a new one and never mutates an existing snapshot in place.
type Snapshot struct {
	manifest Manifest
	vectors  [][]float32
	chunks   []domain.DocumentChunk
}

// Manifest returns the build metadata for this snapshot.
func (s *Snapshot) Manifest() Manifest {
	return s.manifest
}

// DocumentCount returns the number of source documents in this snapshot.
func (s *Snapshot) DocumentCount() int {
	return s.manifest.Documents
}

// ChunkCount returns the number of indexed chunks.
func (s *Snapshot) ChunkCount() int {
	return len(s.chunks)
}

// search scores every chunk against the (normalized) query vector and
// returns the top k, rehydrated with their original metadata. Ties keep
// insertion order.
func (s *Snapshot) search(vector []float32, k int) []domain.RetrievedResult {
	if k <= 0 {
		k = DefaultTopK
	}

	type scored struct {
		pos   int
		score float32
	}

	candidates := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		candidates[i] = scored{pos: i, score: dot(v, vector)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	results := make([]domain.RetrievedResult, 0, k)
	for _, c := range candidates[:k] {
		chunk := s.chunks[c.pos]
		results = append(results, domain.RetrievedResult{
			Kind:       domain.ResultKindDoc,
			Content:    chunk.Content,
			Title:      chunk.Title,
			SourceType: chunk.SourceType,
			ChunkIndex: chunk.ChunkIndex,
			Score:      c.score,
		})
	}
	return results
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize scales a vector to unit length so dot product equals cosine
// similarity. Zero vectors are returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
