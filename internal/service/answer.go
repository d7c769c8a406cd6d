package service

import (
	"context"
	"strings"

	"github.com/cloo-solutions/faqrag/internal/domain"
	"github.com/cloo-solutions/faqrag/internal/llm"
)

// answerTemperature favors grounded, repeatable answers.
const answerTemperature float32 = 0.3

const answerTemplate = `You are a support assistant answering questions about an internal FAQ document.
Answer the question using only the context below. If the context does not
contain the answer, say you don't know rather than guessing.

Context:
{context}

Question: {question}

Answer:`

// AnswerGenerator renders the answer prompt from retrieved chunks and
// invokes the completion provider. Provider errors propagate unretried.
type AnswerGenerator struct {
	completion llm.CompletionClient
}

func NewAnswerGenerator(completion llm.CompletionClient) *AnswerGenerator {
	return &AnswerGenerator{completion: completion}
}

// Generate substitutes {context} with the chunk contents joined by blank
// lines, in retrieval order, and {question} with the verbatim question.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, chunks []domain.RetrievedChunk) (string, error) {
	contents := make([]string, 0, len(chunks))
	for _, c := range chunks {
		contents = append(contents, c.Content)
	}

	prompt := strings.NewReplacer(
		"{context}", strings.Join(contents, "\n\n"),
		"{question}", question,
	).Replace(answerTemplate)

	return g.completion.Complete(ctx, prompt, answerTemperature)
}
