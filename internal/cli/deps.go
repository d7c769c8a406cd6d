package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/faqrag/internal/config"
	"github.com/cloo-solutions/faqrag/internal/document"
	"github.com/cloo-solutions/faqrag/internal/llm"
	"github.com/cloo-solutions/faqrag/internal/service"
	"github.com/cloo-solutions/faqrag/internal/storage"
	"github.com/cloo-solutions/faqrag/internal/store"
)

// NewProviderClient builds the LLM client from configuration. OpenAI is
// preferred when both API keys are set; OpenRouter is the fallback.
func NewProviderClient(cfg *config.Config) (*llm.Client, error) {
	clientCfg := llm.Config{
		EmbeddingModel:      cfg.EmbeddingModel,
		LLMModel:            cfg.LLMModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	}

	if cfg.HasOpenAI() {
		clientCfg.APIKey = cfg.OpenAIAPIKey
		return llm.NewClient(clientCfg)
	}
	if cfg.HasOpenRouter() {
		clientCfg.APIKey = cfg.OpenRouterAPIKey
		return llm.NewOpenRouterClient(clientCfg)
	}
	return nil, fmt.Errorf("no LLM provider configured")
}

// NewDocumentLoader builds a document loader, wiring an S3 client when the
// configured document lives in object storage.
func NewDocumentLoader(ctx context.Context, cfg *config.Config) (*document.Loader, error) {
	if !document.IsRemote(cfg.DocumentPath) {
		return document.NewLoader(nil), nil
	}

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		UsePathStyle:    cfg.S3Endpoint != "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return document.NewLoader(s3Client), nil
}

// NewStoreOpener returns the opener queries use to load the persisted index.
// With a database pool the pgvector store is used; otherwise the local bbolt
// store at VECTOR_STORE_PATH.
func NewStoreOpener(cfg *config.Config, pool *pgxpool.Pool) service.StoreOpener {
	if pool != nil {
		return func(ctx context.Context) (store.VectorStore, error) {
			return store.NewPgStore(pool), nil
		}
	}
	return func(ctx context.Context) (store.VectorStore, error) {
		return store.LoadBolt(cfg.VectorStorePath)
	}
}

// OpenBuildStore opens (creating if needed) the store an index build writes to.
func OpenBuildStore(cfg *config.Config, pool *pgxpool.Pool) (store.VectorStore, error) {
	if pool != nil {
		return store.NewPgStore(pool), nil
	}
	return store.OpenBolt(cfg.VectorStorePath)
}

// NewQueryPipeline wires retrieval, generation, evaluation, and logging into
// a query service ready to answer questions.
func NewQueryPipeline(cfg *config.Config, client *llm.Client, pool *pgxpool.Pool) *service.QueryService {
	retriever := service.NewRetriever(client, NewStoreOpener(cfg, pool), cfg.RetrievalK)
	generator := service.NewAnswerGenerator(client)
	evaluator := service.NewEvaluator(client)
	queryLog := service.NewQueryLog(cfg.QueryLogPath)

	return service.NewQueryService(retriever, generator, evaluator, queryLog)
}
