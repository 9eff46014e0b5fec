package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"support-assistant/internal/config"
	"support-assistant/internal/content"
	"support-assistant/internal/embedding"
	"support-assistant/internal/hints"
	"support-assistant/internal/http"
	"support-assistant/internal/knowledge"
	"support-assistant/internal/llm"
	"support-assistant/internal/retrieval"
	"support-assistant/internal/service"
	"support-assistant/internal/session"
	syncengine "support-assistant/internal/sync"
	"support-assistant/internal/vectorstore"
)

const shutdownGrace = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx := context.Background()

	// Load the local knowledge base. A missing file is fine on first boot;
	// a full sync populates it.
	store := knowledge.NewStore(cfg.KnowledgeFilePath())
	if err := store.Load(); err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	slog.Info("Knowledge base loaded", "items", store.Len(), "path", cfg.KnowledgeFilePath())

	// Load persisted search hints.
	hintService, err := hints.NewService(cfg.HintFilePath())
	if err != nil {
		log.Fatalf("Failed to initialize hint service: %v", err)
	}
	if err := hintService.Load(); err != nil {
		log.Fatalf("Failed to load search hints: %v", err)
	}
	slog.Info("Search hints loaded", "hints", hintService.Len())

	// Embedding gateway with a bounded cache in front of the provider.
	embeddingClient := embedding.NewClient(cfg.EmbeddingAPIURL, cfg.OpenAIAPIKey, cfg.OpenAIAuthKey, cfg.EmbeddingModel, cfg.VectorSize)
	embedder, err := embedding.NewGateway(embeddingClient, cfg.VectorSize)
	if err != nil {
		log.Fatalf("Failed to create embedding gateway: %v", err)
	}

	// Vector index.
	index, err := vectorstore.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantCollection, cfg.VectorSize)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := index.EnsureCollection(ctx); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)

	retriever := retrieval.NewRetriever(embedder, index, store)

	// Session history store backed by Redis.
	redisKV, err := session.NewRedisKV(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		_ = redisKV.Close()
	}()
	historyStore := session.NewHistoryStore(redisKV)
	slog.Info("Redis connected", "addr", cfg.RedisAddr)

	// Two CMS clients: the remote one is the knowledge source, the local
	// one receives feedback and session archives.
	cmsClient := content.NewClient(cfg.StrapiAPIURL, cfg.StrapiAPIToken)
	localClient := content.NewClient(cfg.LocalStrapiAPIURL, cfg.LocalStrapiAPIToken)

	llmClient := llm.NewClient(cfg.OpenAIAPIURL, cfg.OpenAIAPIKey, cfg.OpenAIAuthKey, cfg.OpenAIModel, cfg.OpenAITemperature, cfg.OpenAIMaxTokens)

	// Background sync engine and scheduler.
	engine := syncengine.NewEngine(cmsClient, store, hintService, embedder, index, cfg.RawKnowledgeFilePath(), cfg.SyncWindow)
	scheduler := syncengine.NewScheduler(engine, cfg.SyncInterval, logger)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start sync scheduler: %v", err)
	}
	slog.Info("Sync scheduler started", "interval", cfg.SyncInterval.String())

	// Service layer.
	chatService := service.NewChatService(llmClient, retriever, historyStore, localClient)
	feedbackService := service.NewFeedbackService(localClient, historyStore)
	hintSearchService := service.NewHintService(hintService)

	// Router.
	deps := &http.Deps{
		ChatService:     chatService,
		FeedbackService: feedbackService,
		HintService:     hintSearchService,
		SyncRunner:      engine,
		JobLister:       scheduler,
		Hints:           hintService,
		Knowledge:       store,
		VectorIndex:     index,
	}
	router := http.NewRouter(deps)

	server := &nethttp.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	slog.Info("Shutting down")

	// Stop accepting requests first, then drain background work.
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	scheduler.Stop(shutdownGrace)

	// Wait for in-flight chat persistence goroutines.
	if waiter, ok := chatService.(interface{ Wait() }); ok {
		waiter.Wait()
	}

	slog.Info("Shutdown complete")
}
