package service

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/faqrag/internal/domain"
	"github.com/cloo-solutions/faqrag/internal/llm"
	"github.com/cloo-solutions/faqrag/internal/store"
)

// StoreOpener opens the persisted vector index for one query invocation.
// It fails with domain.ErrIndexNotFound when no index has been built.
type StoreOpener func(ctx context.Context) (store.VectorStore, error)

// Retriever answers "which chunks are relevant to this question" by loading
// the persisted index, embedding the question, and querying top-k. The
// store's ordering is returned as-is: no re-ranking, filtering, or
// deduplication.
type Retriever struct {
	embedding llm.EmbeddingClient
	open      StoreOpener
	k         int
}

func NewRetriever(embedding llm.EmbeddingClient, open StoreOpener, k int) *Retriever {
	return &Retriever{
		embedding: embedding,
		open:      open,
		k:         k,
	}
}

// Retrieve returns up to k chunks nearest to the question. The index is
// opened before any provider call so a missing index fails fast.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.RetrievedChunk, error) {
	vs, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer vs.Close()

	count, err := vs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect index: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrIndexNotFound
	}

	vector, err := r.embedding.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	return vs.Search(ctx, vector, r.k)
}
