package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/faqrag/internal/api/handlers"
	"github.com/cloo-solutions/faqrag/internal/domain"
)

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Ask(ctx context.Context, question string) (*domain.QueryResponse, *domain.EvaluationResult, error) {
	args := m.Called(ctx, question)
	var resp *domain.QueryResponse
	if args.Get(0) != nil {
		resp = args.Get(0).(*domain.QueryResponse)
	}
	var eval *domain.EvaluationResult
	if args.Get(1) != nil {
		eval = args.Get(1).(*domain.EvaluationResult)
	}
	return resp, eval, args.Error(2)
}

type MockQueryLog struct {
	mock.Mock
}

func (m *MockQueryLog) Read() ([]domain.LoggedQueryOutput, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoggedQueryOutput), args.Error(1)
}

func setupRouter() (http.Handler, *MockQueryService, *MockQueryLog) {
	querySvc := new(MockQueryService)
	queryLog := new(MockQueryLog)

	cfg := RouterConfig{
		QueryHandler: handlers.NewQueryHandler(querySvc, queryLog),
	}

	router := NewRouter(cfg)
	return router, querySvc, queryLog
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestRouter_QueryEndpoint(t *testing.T) {
	router, querySvc, _ := setupRouter()

	resp := &domain.QueryResponse{
		UserQuestion: "What is the refund policy?",
		SystemAnswer: "Refunds are available within 30 days of purchase.",
		ChunksRelated: []domain.RetrievedChunk{
			{Chunk: domain.Chunk{Content: "Refunds: 30 days."}},
		},
	}
	querySvc.On("Ask", mock.Anything, "What is the refund policy?").Return(resp, nil, nil)

	body, _ := json.Marshal(handlers.QueryRequest{Question: "What is the refund policy?"})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "30 days")
	querySvc.AssertExpectations(t)
}

func TestRouter_HistoryEndpoint(t *testing.T) {
	router, _, queryLog := setupRouter()

	queryLog.On("Read").Return([]domain.LoggedQueryOutput{
		{ID: "1", QueryResponse: domain.QueryResponse{UserQuestion: "q1", SystemAnswer: "a1"}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "q1")
	queryLog.AssertExpectations(t)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_BodyLimit(t *testing.T) {
	router, querySvc, _ := setupRouter()

	big := make([]byte, 2*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(big))
	req.ContentLength = int64(len(big))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	querySvc.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
