package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/faqrag/internal/api"
	"github.com/cloo-solutions/faqrag/internal/domain"
)

// QuestionAnswerer runs a question through the full pipeline.
type QuestionAnswerer interface {
	Ask(ctx context.Context, question string) (*domain.QueryResponse, *domain.EvaluationResult, error)
}

// HistoryReader reads previously logged queries.
type HistoryReader interface {
	Read() ([]domain.LoggedQueryOutput, error)
}

type QueryHandler struct {
	svc     QuestionAnswerer
	history HistoryReader
}

func NewQueryHandler(svc QuestionAnswerer, history HistoryReader) *QueryHandler {
	return &QueryHandler{svc: svc, history: history}
}

type QueryRequest struct {
	Question string `json:"question"`
}

type QueryResult struct {
	UserQuestion  string                   `json:"user_question"`
	SystemAnswer  string                   `json:"system_answer"`
	ChunksRelated []domain.RetrievedChunk  `json:"chunks_related"`
	Evaluation    *domain.EvaluationResult `json:"evaluation,omitempty"`
}

// Ask handles POST /query
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	resp, evaluation, err := h.svc.Ask(r.Context(), req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, QueryResult{
		UserQuestion:  resp.UserQuestion,
		SystemAnswer:  resp.SystemAnswer,
		ChunksRelated: resp.ChunksRelated,
		Evaluation:    evaluation,
	})
}

// History handles GET /history. An optional limit parameter returns only the
// most recent records.
func (h *QueryHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.Read()
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			api.Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(records) {
			records = records[len(records)-limit:]
		}
	}

	if records == nil {
		records = []domain.LoggedQueryOutput{}
	}

	api.Success(w, http.StatusOK, records)
}
