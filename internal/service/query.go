package service

import (
	"context"
	"log"

	"github.com/cloo-solutions/faqrag/internal/domain"
	"github.com/cloo-solutions/faqrag/internal/telemetry"
)

// ChunkRetriever fetches the chunks relevant to a question.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, question string) ([]domain.RetrievedChunk, error)
}

// AnswerProducer generates an answer grounded in retrieved chunks.
type AnswerProducer interface {
	Generate(ctx context.Context, question string, chunks []domain.RetrievedChunk) (string, error)
}

// AnswerReviewer scores a query response.
type AnswerReviewer interface {
	Evaluate(ctx context.Context, resp domain.QueryResponse) (*domain.EvaluationResult, error)
}

// RecordLogger persists the outcome of a query.
type RecordLogger interface {
	Append(record domain.LoggedQueryOutput)
}

// QueryService runs a question end to end: retrieve, answer, evaluate, log.
// Steps run strictly sequentially; one query completes before the next
// begins.
type QueryService struct {
	retriever ChunkRetriever
	generator AnswerProducer
	evaluator AnswerReviewer
	queryLog  RecordLogger
}

func NewQueryService(retriever ChunkRetriever, generator AnswerProducer, evaluator AnswerReviewer, queryLog RecordLogger) *QueryService {
	return &QueryService{
		retriever: retriever,
		generator: generator,
		evaluator: evaluator,
		queryLog:  queryLog,
	}
}

// Ask answers a question against the indexed document. Retrieval and
// generation errors abort the query; evaluation errors degrade gracefully
// (the answer is still returned and logged, without an evaluation).
func (s *QueryService) Ask(ctx context.Context, question string) (*domain.QueryResponse, *domain.EvaluationResult, error) {
	retrieveCtx, retrieveSpan := telemetry.StartSpan(ctx, "query.retrieve", telemetry.SpanAttributes{Operation: "retrieve"})
	chunks, err := s.retriever.Retrieve(retrieveCtx, question)
	if err != nil {
		retrieveSpan.SetError(err)
		retrieveSpan.End()
		return nil, nil, err
	}
	retrieveSpan.End()

	generateCtx, generateSpan := telemetry.StartSpan(ctx, "query.generate", telemetry.SpanAttributes{Operation: "generate"})
	answer, err := s.generator.Generate(generateCtx, question, chunks)
	if err != nil {
		generateSpan.SetError(err)
		generateSpan.End()
		return nil, nil, err
	}
	generateSpan.End()

	resp := domain.QueryResponse{
		UserQuestion:  question,
		SystemAnswer:  answer,
		ChunksRelated: chunks,
	}

	evaluateCtx, evaluateSpan := telemetry.StartSpan(ctx, "query.evaluate", telemetry.SpanAttributes{Operation: "evaluate"})
	evaluation, err := s.evaluator.Evaluate(evaluateCtx, resp)
	if err != nil {
		evaluateSpan.SetError(err)
		log.Printf("warning: evaluation failed, logging query without it: %v", err)
		evaluation = nil
	}
	evaluateSpan.End()

	s.queryLog.Append(domain.LoggedQueryOutput{
		QueryResponse: resp,
		Evaluation:    evaluation,
	})

	return &resp, evaluation, nil
}
