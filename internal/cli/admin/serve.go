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

	"github.com/cloo-solutions/quarry/internal/api/handlers"
	"github.com/cloo-solutions/quarry/internal/config"
	"github.com/cloo-solutions/quarry/internal/extract"
	"github.com/cloo-solutions/quarry/internal/index"
	"github.com/cloo-solutions/quarry/internal/jobs"
	"github.com/cloo-solutions/quarry/internal/openai"
	"github.com/cloo-solutions/quarry/internal/server"
	"github.com/cloo-solutions/quarry/internal/service"
	"github.com/cloo-solutions/quarry/internal/storage"
	"github.com/cloo-solutions/quarry/internal/tavily"
	"github.com/cloo-solutions/quarry/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the quarry API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
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
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
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

	var embedder index.Embedder
	var completion service.CompletionClient
	if cfg.HasOpenAI() {
		client := openai.NewClientWithConfig(openai.Config{
			APIKey:              cfg.OpenAIAPIKey,
			BaseURL:             cfg.OpenAIBaseURL,
			EmbeddingModel:      openai.EmbeddingModel(cfg.EmbeddingModel),
			EmbeddingDimensions: cfg.EmbeddingDimensions,
			ChatModel:           cfg.ChatModel,
		})
		embedder = client
		completion = client
		log.Printf("embedding model: %s (%d dimensions), chat model: %s",
			cfg.EmbeddingModel, cfg.EmbeddingDimensions, cfg.ChatModel)
	} else {
		log.Println("no OPENAI_API_KEY: document retrieval and answer generation disabled")
	}

	indexStore := index.NewStore(cfg.DataDir, embedder)
	if cfg.HasOpenAI() {
		if snapshot, err := indexStore.Load(); err != nil {
			// The daemon still starts: a rebuild replaces the bad index.
			log.Printf("failed to load persisted index: %v", err)
		} else if snapshot != nil {
			manifest := snapshot.Manifest()
			log.Printf("loaded index build %s: %d documents, %d chunks",
				manifest.BuildID, manifest.Documents, snapshot.ChunkCount())
		} else {
			log.Println("no persisted index found; retrieval unavailable until a rebuild")
		}
	}

	var webSearcher service.WebSearcher
	if cfg.HasTavily() {
		webClient, err := tavily.NewClient(tavily.Config{
			APIKey:     cfg.TavilyAPIKey,
			MaxResults: cfg.TavilyMaxResults,
			Timeout:    cfg.WebTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create tavily client: %w", err)
		}
		webSearcher = webClient
	} else {
		log.Println("no TAVILY_API_KEY: web search disabled")
	}

	var archive *storage.S3Client
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		archive = s3Client
	}

	var documentArchive service.DocumentArchive
	var sourceArchive handlers.SourceArchive
	if archive != nil {
		documentArchive = archive
		sourceArchive = archive
	}

	ingestSvc := service.NewIngestService(indexStore, extract.NewRegistry(), documentArchive, service.ChunkConfig{
		Size:    cfg.ChunkSize,
		Overlap: cfg.ChunkOverlap,
	})

	retrievalSvc := service.NewRetrievalService(indexStore, webSearcher, service.RetrievalConfig{
		TopK:         cfg.SearchTopK,
		LocalTimeout: cfg.EmbedTimeout,
		WebTimeout:   cfg.WebTimeout,
	})
	answerSvc := service.NewAnswerService(completion, cfg.GenerateTimeout)
	summarizerSvc := service.NewSummarizerService(completion, cfg.SummaryTopN, cfg.GenerateTimeout)
	queryLog := service.NewFileQueryLog(cfg.DataDir)
	querySvc := service.NewQueryService(retrievalSvc, answerSvc, summarizerSvc, queryLog)

	refresher := jobs.NewIndexRefresher(indexStore)
	worker := jobs.NewWorker(refresher, 10*time.Second)
	go worker.Start(ctx)

	routerCfg := server.RouterConfig{
		APIKey:        cfg.APIKey,
		QueryHandler:  handlers.NewQueryHandler(querySvc),
		IndexHandler:  handlers.NewIndexHandler(ingestSvc, indexStore),
		SourceHandler: handlers.NewSourceHandler(sourceArchive),
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

	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
