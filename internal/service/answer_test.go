package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnswerGenerator_PromptContainsChunksAndQuestion(t *testing.T) {
	generator := NewAnswerGenerator(echoCompletion{})

	question := "What is the refund policy?"
	chunks := retrievedChunks("A", "B", "C")

	prompt, err := generator.Generate(context.Background(), question, chunks)
	require.NoError(t, err)

	assert.Contains(t, prompt, question)
	posA := strings.Index(prompt, "A\n\nB")
	require.GreaterOrEqual(t, posA, 0, "chunks should appear joined by blank lines in retrieval order")
	assert.Contains(t, prompt, "A\n\nB\n\nC")
	assert.NotContains(t, prompt, "{context}")
	assert.NotContains(t, prompt, "{question}")
}

func TestAnswerGenerator_UsesAnswerTemperature(t *testing.T) {
	completion := new(MockCompletionClient)
	generator := NewAnswerGenerator(completion)

	completion.On("Complete", mock.Anything, mock.Anything, float32(0.3)).Return("answer", nil)

	answer, err := generator.Generate(context.Background(), "question", retrievedChunks("A"))
	require.NoError(t, err)
	assert.Equal(t, "answer", answer)
	completion.AssertExpectations(t)
}

func TestAnswerGenerator_ProviderErrorPropagates(t *testing.T) {
	completion := new(MockCompletionClient)
	generator := NewAnswerGenerator(completion)

	providerErr := errors.New("rate limit exceeded")
	completion.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", providerErr)

	_, err := generator.Generate(context.Background(), "question", retrievedChunks("A"))
	assert.ErrorIs(t, err, providerErr)
}

func TestAnswerGenerator_EmptyChunks(t *testing.T) {
	generator := NewAnswerGenerator(echoCompletion{})

	prompt, err := generator.Generate(context.Background(), "question", nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "question")
}
