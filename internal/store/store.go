// Package store provides the vector index implementations backing retrieval.
package store

import (
	"context"
	"math"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

// IndexEntry pairs a document chunk with its embedding vector.
type IndexEntry struct {
	Chunk  domain.Chunk
	Vector []float32
}

// VectorStore persists chunk vectors and answers nearest-neighbor queries.
// The store's own ordering is authoritative; callers apply no re-ranking.
type VectorStore interface {
	// Replace atomically swaps the index contents for the given entries.
	Replace(ctx context.Context, entries []IndexEntry) error

	// Search returns up to k chunks nearest to the query vector,
	// nearest-first. It never returns more chunks than the index holds.
	Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error)

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	Close() error
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 when either vector has zero norm or lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
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

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
