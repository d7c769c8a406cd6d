package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

type Config struct {
	DocumentPath    string `envconfig:"DOCUMENT_PATH" default:"docs/faq.md"`
	VectorStorePath string `envconfig:"VECTOR_STORE_PATH" default:"vector-store"`
	QueryLogPath    string `envconfig:"QUERY_LOG_PATH" default:"outputs/query-log.json"`

	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`
	LLMModel            string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`

	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"50"`
	RetrievalK   int `envconfig:"RETRIEVAL_K" default:"3"`

	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenRouterAPIKey string `envconfig:"OPENROUTER_API_KEY"`

	// Optional pgvector-backed store; the local bbolt store is used when empty.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Only needed when DOCUMENT_PATH is an s3:// URL.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Region    string `envconfig:"S3_REGION"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	SentryDSN string `envconfig:"SENTRY_DSN"`

	// Daemon-only: seconds between document mtime checks, 0 disables re-indexing.
	ReindexInterval int `envconfig:"REINDEX_INTERVAL" default:"0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to process config", err)
	}

	return &cfg, nil
}

// MustLoad loads and validates configuration, exiting on any violation.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return cfg
}

// Validate enforces the startup constraints. Each violation names the
// offending environment variable.
func (c *Config) Validate() error {
	if c.DocumentPath == "" {
		return domain.NewConfigError("DOCUMENT_PATH", "must be set")
	}
	if !isRemoteDocument(c.DocumentPath) {
		if _, err := os.Stat(c.DocumentPath); err != nil {
			return domain.NewConfigError("DOCUMENT_PATH", "does not exist: "+c.DocumentPath)
		}
	}
	if c.VectorStorePath == "" {
		return domain.NewConfigError("VECTOR_STORE_PATH", "must be set")
	}
	if c.EmbeddingModel == "" {
		return domain.NewConfigError("EMBEDDING_MODEL", "must be a non-empty model identifier")
	}
	if c.LLMModel == "" {
		return domain.NewConfigError("LLM_MODEL", "must be a non-empty model identifier")
	}
	if c.ChunkSize <= 0 {
		return domain.NewConfigError("CHUNK_SIZE", "must be a positive integer")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return domain.NewConfigError("CHUNK_OVERLAP", "must satisfy 0 <= CHUNK_OVERLAP < CHUNK_SIZE")
	}
	if c.RetrievalK <= 0 {
		return domain.NewConfigError("RETRIEVAL_K", "must be a positive integer")
	}
	if c.OpenAIAPIKey == "" && c.OpenRouterAPIKey == "" {
		return domain.ErrNoProviderKey
	}
	return nil
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasOpenRouter() bool {
	return c.OpenRouterAPIKey != ""
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" || c.S3AccessKey != ""
}

func isRemoteDocument(path string) bool {
	return len(path) > 5 && path[:5] == "s3://"
}
