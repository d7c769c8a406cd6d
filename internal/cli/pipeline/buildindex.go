// Package pipeline implements the faqrag commands that run the FAQ
// question-answering pipeline from the terminal.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/cloo-solutions/faqrag/internal/cli"
	"github.com/cloo-solutions/faqrag/internal/config"
	"github.com/cloo-solutions/faqrag/internal/database"
	"github.com/cloo-solutions/faqrag/internal/service"
)

// BuildIndexCmd returns the build-index command
func BuildIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-index",
		Short: "Chunk the FAQ document, embed it, and persist the vector index",
		Long: `Reads the document at DOCUMENT_PATH, splits it into overlapping chunks,
generates embeddings through the configured provider, and replaces the
persisted vector index. Existing index contents are discarded.`,
		RunE: runBuildIndex,
	}

	cmd.Flags().Bool("no-progress", false, "Disable the embedding progress bar")

	return cmd
}

func runBuildIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	noProgress, _ := cmd.Flags().GetBool("no-progress")

	pool, err := connectDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	info, err := buildIndex(ctx, cfg, pool, !noProgress)
	if err != nil {
		return err
	}

	log.Printf("indexed %d chunks from %s", info.TotalChunks, cfg.DocumentPath)
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connectDatabase returns a pool when DATABASE_URL is set, applying pending
// migrations first. A nil pool means the local bbolt store is used.
func connectDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if !cfg.HasDatabase() {
		return nil, nil
	}

	if err := cli.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func buildIndex(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, showProgress bool) (*service.ChunkInfo, error) {
	client, err := cli.NewProviderClient(cfg)
	if err != nil {
		return nil, err
	}

	loader, err := cli.NewDocumentLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}

	text, source, err := loader.Load(ctx, cfg.DocumentPath)
	if err != nil {
		return nil, err
	}

	vs, err := cli.OpenBuildStore(cfg, pool)
	if err != nil {
		return nil, err
	}
	defer vs.Close()

	indexer := service.NewIndexer(client, vs, service.IndexerConfig{
		ChunkSize:      cfg.ChunkSize,
		ChunkOverlap:   cfg.ChunkOverlap,
		EmbeddingModel: cfg.EmbeddingModel,
		DocumentPath:   cfg.DocumentPath,
		InfoDir:        cfg.VectorStorePath,
		ShowProgress:   showProgress,
	})

	return indexer.Build(ctx, text, source)
}
