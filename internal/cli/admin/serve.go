// Package admin implements the faqragd commands.
package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/cloo-solutions/faqrag/internal/api/handlers"
	"github.com/cloo-solutions/faqrag/internal/cli"
	"github.com/cloo-solutions/faqrag/internal/config"
	"github.com/cloo-solutions/faqrag/internal/database"
	"github.com/cloo-solutions/faqrag/internal/document"
	"github.com/cloo-solutions/faqrag/internal/jobs"
	"github.com/cloo-solutions/faqrag/internal/llm"
	"github.com/cloo-solutions/faqrag/internal/server"
	"github.com/cloo-solutions/faqrag/internal/service"
	"github.com/cloo-solutions/faqrag/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the FAQ question-answering API server",
		Long:  "Start the faqrag API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if cfg.SentryDSN != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	var pool *pgxpool.Pool
	if cfg.HasDatabase() {
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			if err := cli.RunMigrations(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		pool, err = database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		log.Println("connected to database")
	}

	client, err := cli.NewProviderClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create provider client: %w", err)
	}

	querySvc := cli.NewQueryPipeline(cfg, client, pool)
	queryLog := service.NewQueryLog(cfg.QueryLogPath)

	var reindexWorker *jobs.Worker
	if cfg.ReindexInterval > 0 {
		if document.IsRemote(cfg.DocumentPath) {
			log.Println("reindexing disabled: remote documents are not watched")
		} else {
			reindexWorker = startReindexWorker(ctx, cfg, client, pool)
		}
	}

	routerCfg := server.RouterConfig{
		QueryHandler: handlers.NewQueryHandler(querySvc, queryLog),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if reindexWorker != nil {
		reindexWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// startReindexWorker watches the local document and rebuilds the index when
// it changes. The current mtime is taken as the starting watermark so an
// unchanged document is not re-embedded on boot.
func startReindexWorker(ctx context.Context, cfg *config.Config, client *llm.Client, pool *pgxpool.Pool) *jobs.Worker {
	var lastModified time.Time
	if info, err := os.Stat(cfg.DocumentPath); err == nil {
		lastModified = info.ModTime()
	}

	rebuild := func(ctx context.Context) error {
		loader, err := cli.NewDocumentLoader(ctx, cfg)
		if err != nil {
			return err
		}

		text, source, err := loader.Load(ctx, cfg.DocumentPath)
		if err != nil {
			return err
		}

		vs, err := cli.OpenBuildStore(cfg, pool)
		if err != nil {
			return err
		}
		defer vs.Close()

		indexer := service.NewIndexer(client, vs, service.IndexerConfig{
			ChunkSize:      cfg.ChunkSize,
			ChunkOverlap:   cfg.ChunkOverlap,
			EmbeddingModel: cfg.EmbeddingModel,
			DocumentPath:   cfg.DocumentPath,
			InfoDir:        cfg.VectorStorePath,
		})

		_, err = indexer.Build(ctx, text, source)
		return err
	}

	processor := jobs.NewReindexWorker(cfg.DocumentPath, lastModified, rebuild)
	worker := jobs.NewWorker(processor, time.Duration(cfg.ReindexInterval)*time.Second)
	go worker.Start(ctx)
	log.Println("reindex worker started")

	return worker
}
