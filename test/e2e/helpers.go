//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloo-solutions/faqrag/internal/api/handlers"
	"github.com/cloo-solutions/faqrag/internal/server"
	"github.com/cloo-solutions/faqrag/internal/service"
	"github.com/cloo-solutions/faqrag/internal/store"
)

// stubEmbedder produces deterministic vectors from a hash of the text, so
// identical texts always land on identical vectors.
type stubEmbedder struct {
	dimensions int
}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, s.dimensions)
	for i := range vec {
		bits := binary.BigEndian.Uint32(sum[(i*4)%28 : (i*4)%28+4])
		vec[i] = float32(bits%1000)/1000 + 0.001
	}
	return vec, nil
}

func (s *stubEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// stubCompleter answers with a canned response. Evaluation prompts get a
// parseable JSON verdict, answer prompts get prose.
type stubCompleter struct{}

func (s *stubCompleter) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	if strings.Contains(prompt, "overall_score") {
		return `{"overall_score": 8.0, "chunk_relevance": 8, "answer_accuracy": 8, "completeness": 8, "reason": "grounded in the provided chunks"}`, nil
	}
	return "Answer derived from the FAQ context.", nil
}

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	ServerURL  string
	StoreDir   string
	LogPath    string
	HTTPClient *http.Client
	closers    []func()
}

// SetupE2EEnv indexes a small FAQ document into a bbolt store and serves the
// query API over it with stub providers.
func SetupE2EEnv(t *testing.T, faqText string) *E2ETestEnv {
	ctx := context.Background()

	dir := t.TempDir()
	storeDir := filepath.Join(dir, "vector-store")
	logPath := filepath.Join(dir, "outputs", "query-log.json")

	embedder := &stubEmbedder{dimensions: 64}

	vs, err := store.OpenBolt(storeDir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	indexer := service.NewIndexer(embedder, vs, service.IndexerConfig{
		ChunkSize:      200,
		ChunkOverlap:   20,
		EmbeddingModel: "stub-embedding",
		DocumentPath:   "faq.md",
		InfoDir:        storeDir,
	})
	if _, err := indexer.Build(ctx, faqText, "faq.md"); err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	if err := vs.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	opener := func(ctx context.Context) (store.VectorStore, error) {
		return store.LoadBolt(storeDir)
	}

	completer := &stubCompleter{}
	retriever := service.NewRetriever(embedder, opener, 3)
	generator := service.NewAnswerGenerator(completer)
	evaluator := service.NewEvaluator(completer)
	queryLog := service.NewQueryLog(logPath)
	querySvc := service.NewQueryService(retriever, generator, evaluator, queryLog)

	router := server.NewRouter(server.RouterConfig{
		QueryHandler: handlers.NewQueryHandler(querySvc, queryLog),
	})

	srv := httptest.NewServer(router)

	env := &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		ServerURL:  srv.URL,
		StoreDir:   storeDir,
		LogPath:    logPath,
		HTTPClient: srv.Client(),
	}
	env.closers = append(env.closers, srv.Close)
	return env
}

// Cleanup releases all environment resources.
func (e *E2ETestEnv) Cleanup() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// APIResponse is the envelope every endpoint wraps its payload in.
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// Post sends a JSON body and decodes the response envelope.
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	resp, err := e.HTTPClient.Post(e.ServerURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp)
}

// Get fetches a path and decodes the response envelope.
func (e *E2ETestEnv) Get(path string) (*APIResponse, int, error) {
	resp, err := e.HTTPClient.Get(e.ServerURL + path)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp)
}

func decodeEnvelope(resp *http.Response) (*APIResponse, int, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var envelope APIResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response %q: %w", raw, err)
	}
	return &envelope, resp.StatusCode, nil
}

// ReadQueryLog parses the on-disk query log.
func (e *E2ETestEnv) ReadQueryLog() ([]map[string]interface{}, error) {
	data, err := os.ReadFile(e.LogPath)
	if err != nil {
		return nil, err
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
