package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloo-solutions/faqrag/internal/domain"
	"github.com/cloo-solutions/faqrag/internal/llm"
)

// evaluationTemperature is lower than answer generation; scoring should be
// as deterministic as the provider allows.
const evaluationTemperature float32 = 0.2

const evaluationTemplate = `You are reviewing the quality of a generated answer against the source
chunks it was grounded in.

Question: {question}

Answer: {answer}

Source chunks:
{chunks}

Score the answer on a 0-10 scale and respond with a JSON object with these
fields: "overall_score", "chunk_relevance", "answer_accuracy",
"completeness" (all numbers 0-10) and "reason" (a short string).`

// jsonObjectPattern greedily matches the first-to-last brace span in the
// provider output. Best effort: it misparses when prose around the JSON
// itself contains braces.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type evaluationPayload struct {
	OverallScore   float64 `json:"overall_score"`
	ChunkRelevance float64 `json:"chunk_relevance"`
	AnswerAccuracy float64 `json:"answer_accuracy"`
	Completeness   float64 `json:"completeness"`
	Reason         string  `json:"reason"`
}

// Evaluator scores a generated answer against its retrieved chunks using a
// second completion pass.
type Evaluator struct {
	completion llm.CompletionClient
}

func NewEvaluator(completion llm.CompletionClient) *Evaluator {
	return &Evaluator{completion: completion}
}

// Evaluate renders the scoring prompt, invokes the provider, and parses the
// structured score out of the free-text response. A response with no JSON
// object fails with an evaluation-parse error.
func (e *Evaluator) Evaluate(ctx context.Context, resp domain.QueryResponse) (*domain.EvaluationResult, error) {
	prompt := strings.NewReplacer(
		"{question}", resp.UserQuestion,
		"{answer}", resp.SystemAnswer,
		"{chunks}", numberChunks(resp.ChunksRelated),
	).Replace(evaluationTemplate)

	raw, err := e.completion.Complete(ctx, prompt, evaluationTemperature)
	if err != nil {
		return nil, err
	}

	return ParseEvaluation(raw)
}

// ParseEvaluation extracts the first {...} span from raw and decodes it.
// Fields absent from the JSON surface as zero values; no schema validation
// is applied beyond JSON well-formedness.
func ParseEvaluation(raw string) (*domain.EvaluationResult, error) {
	match := jsonObjectPattern.FindString(raw)
	if match == "" {
		return nil, domain.ErrNoJSONInResponse
	}

	var payload evaluationPayload
	if err := json.Unmarshal([]byte(match), &payload); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeEvaluationParse, "evaluation response is not valid JSON", err)
	}

	return &domain.EvaluationResult{
		Score:  payload.OverallScore,
		Reason: payload.Reason,
		Breakdown: domain.EvaluationBreakdown{
			ChunkRelevance: payload.ChunkRelevance,
			AnswerAccuracy: payload.AnswerAccuracy,
			Completeness:   payload.Completeness,
		},
	}, nil
}

func numberChunks(chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Chunk %d] %s", i+1, c.Content)
	}
	return b.String()
}
