package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

// MockEmbeddingClient mocks the embedding provider
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingClient) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockCompletionClient mocks the completion provider
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}

// echoCompletion returns its rendered prompt verbatim, which lets tests
// inspect exactly what the provider was asked.
type echoCompletion struct{}

func (echoCompletion) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	return prompt, nil
}

func retrievedChunks(contents ...string) []domain.RetrievedChunk {
	chunks := make([]domain.RetrievedChunk, len(contents))
	for i, content := range contents {
		chunks[i] = domain.RetrievedChunk{
			Chunk: domain.Chunk{
				Content:  content,
				Metadata: domain.ChunkMetadata{ChunkIndex: i, Source: "faq.md"},
			},
		}
	}
	return chunks
}
