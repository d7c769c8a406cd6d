package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

type MockProviderAPI struct {
	mock.Mock
}

func (m *MockProviderAPI) CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.EmbeddingResponse), args.Error(1)
}

func (m *MockProviderAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func newTestClient(api ProviderAPI, dims int) *Client {
	return &Client{
		api:        api,
		embedModel: "text-embedding-3-small",
		chatModel:  "gpt-4o-mini",
		dimensions: dims,
	}
}

func makeEmbedding(dims int) []float32 {
	v := make([]float32, dims)
	for i := range v {
		v[i] = float32(i) * 0.001
	}
	return v
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewOpenRouterClient(t *testing.T) {
	client, err := NewOpenRouterClient(Config{APIKey: "sk-or-test", LLMModel: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestGenerateEmbedding_Success(t *testing.T) {
	api := new(MockProviderAPI)
	client := newTestClient(api, 4)

	embedding := makeEmbedding(4)
	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: embedding}},
	}, nil)

	got, err := client.GenerateEmbedding(context.Background(), "what is the return policy")
	require.NoError(t, err)
	assert.Equal(t, embedding, got)
	api.AssertExpectations(t)
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	client := newTestClient(new(MockProviderAPI), 4)

	_, err := client.GenerateEmbedding(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestGenerateEmbedding_WrongDimensions(t *testing.T) {
	api := new(MockProviderAPI)
	client := newTestClient(api, 4)

	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: makeEmbedding(3)}},
	}, nil)

	_, err := client.GenerateEmbedding(context.Background(), "text")
	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestGenerateEmbeddings_ProviderError(t *testing.T) {
	api := new(MockProviderAPI)
	client := newTestClient(api, 4)

	apiErr := errors.New("rate limit exceeded")
	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(openai.EmbeddingResponse{}, apiErr)

	_, err := client.GenerateEmbeddings(context.Background(), []string{"a", "b"})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeProvider, domainErr.Code)
	assert.ErrorIs(t, err, apiErr)
}

func TestGenerateEmbeddings_PreservesOrder(t *testing.T) {
	api := new(MockProviderAPI)
	client := newTestClient(api, 2)

	api.On("CreateEmbeddings", mock.Anything, mock.Anything).Return(openai.EmbeddingResponse{
		Data: []openai.Embedding{
			{Embedding: []float32{1, 0}},
			{Embedding: []float32{0, 1}},
			{Embedding: []float32{1, 1}},
		},
	}, nil)

	got, err := client.GenerateEmbeddings(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []float32{1, 0}, got[0])
	assert.Equal(t, []float32{0, 1}, got[1])
	assert.Equal(t, []float32{1, 1}, got[2])
}

func TestComplete_Success(t *testing.T) {
	api := new(MockProviderAPI)
	client := newTestClient(api, 4)

	api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "gpt-4o-mini" &&
			req.Temperature == float32(0.3) &&
			len(req.Messages) == 1 &&
			req.Messages[0].Content == "answer this"
	})).Return(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "the answer"}},
		},
	}, nil)

	got, err := client.Complete(context.Background(), "answer this", 0.3)
	require.NoError(t, err)
	assert.Equal(t, "the answer", got)
	api.AssertExpectations(t)
}

func TestComplete_NoChoices(t *testing.T) {
	api := new(MockProviderAPI)
	client := newTestClient(api, 4)

	api.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{}, nil)

	_, err := client.Complete(context.Background(), "prompt", 0.3)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeProvider, domainErr.Code)
}
