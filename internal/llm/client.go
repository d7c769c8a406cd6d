package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

const (
	// DefaultEmbeddingDimensions is the expected vector width for the
	// default embedding model.
	DefaultEmbeddingDimensions = 1536

	// OpenRouterBaseURL is the OpenAI-compatible endpoint used when the
	// OpenRouter provider is selected.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// embedBatchSize bounds how many chunk texts go into one embeddings request.
	embedBatchSize = 64
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when no provider API key is configured
	ErrNoAPIKey = errors.New("no provider API key configured")
)

// EmbeddingClient generates embedding vectors for text.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionClient generates text for a rendered prompt.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)
}

// ProviderAPI is the subset of the upstream client the provider uses.
type ProviderAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config configures a provider client.
type Config struct {
	APIKey              string
	BaseURL             string
	EmbeddingModel      string
	LLMModel            string
	EmbeddingDimensions int
}

// Client wraps an OpenAI-compatible API for embeddings and completions.
// OpenAI and OpenRouter differ only in BaseURL.
type Client struct {
	api        ProviderAPI
	embedModel string
	chatModel  string
	dimensions int
}

// NewClient creates a provider client with explicit configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}

	return &Client{
		api:        openai.NewClientWithConfig(apiCfg),
		embedModel: cfg.EmbeddingModel,
		chatModel:  cfg.LLMModel,
		dimensions: dimensions,
	}, nil
}

// NewOpenRouterClient creates a client backed by OpenRouter.
func NewOpenRouterClient(cfg Config) (*Client, error) {
	cfg.BaseURL = OpenRouterBaseURL
	return NewClient(cfg)
}

// GenerateEmbedding generates an embedding for a single text.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embeddings, err := c.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// GenerateEmbeddings generates embeddings for a batch of texts, preserving
// input order. Requests are split into fixed-size batches.
func (c *Client) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyText
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(c.embedModel),
		})
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "embedding request failed", err)
		}
		if len(resp.Data) != end-start {
			return nil, domain.NewDomainError(domain.ErrCodeProvider, "embedding response is missing data")
		}

		for _, d := range resp.Data {
			if len(d.Embedding) != c.dimensions {
				return nil, ErrWrongDimensions
			}
			out = append(out, d.Embedding)
		}
	}

	return out, nil
}

// Complete sends a single-turn chat completion request and returns the
// generated text. One request, one response; errors propagate unretried.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	if prompt == "" {
		return "", ErrEmptyText
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewDomainError(domain.ErrCodeProvider, "completion response has no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
