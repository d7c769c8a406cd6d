package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

// MemoryStore is an in-memory VectorStore used in tests and as a scratch
// index where persistence is not needed.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []IndexEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Replace(ctx context.Context, entries []IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]IndexEntry(nil), entries...)
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		entry IndexEntry
		score float64
	}

	scores := make([]scored, 0, len(s.entries))
	for _, entry := range s.entries {
		scores = append(scores, scored{entry: entry, score: CosineSimilarity(vector, entry.Vector)})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if k > len(scores) {
		k = len(scores)
	}

	results := make([]domain.RetrievedChunk, 0, k)
	for _, sc := range scores[:k] {
		score := sc.score
		results = append(results, domain.RetrievedChunk{
			Chunk:           sc.entry.Chunk,
			SimilarityScore: &score,
		})
	}
	return results, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
