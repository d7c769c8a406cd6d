package domain

// QueryResponse is the unit of work for a single question: what was asked,
// what the model answered, and the chunks the answer was grounded in.
type QueryResponse struct {
	UserQuestion  string           `json:"user_question"`
	SystemAnswer  string           `json:"system_answer"`
	ChunksRelated []RetrievedChunk `json:"chunks_related"`
}

// EvaluationBreakdown holds the per-dimension scores of an answer review.
type EvaluationBreakdown struct {
	ChunkRelevance float64 `json:"chunk_relevance"`
	AnswerAccuracy float64 `json:"answer_accuracy"`
	Completeness   float64 `json:"completeness"`
}

// EvaluationResult scores a generated answer against its retrieved chunks
// on a 0-10 scale.
type EvaluationResult struct {
	Score     float64             `json:"score"`
	Reason    string              `json:"reason"`
	Breakdown EvaluationBreakdown `json:"breakdown"`
}

// LoggedQueryOutput is the persisted record of one query. Evaluation is nil
// when the evaluation step failed or was skipped.
type LoggedQueryOutput struct {
	ID string `json:"id"`
	QueryResponse
	Timestamp  string            `json:"timestamp"`
	Evaluation *EvaluationResult `json:"evaluation,omitempty"`
}
