package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"support-assistant/internal/handlers"
	"support-assistant/internal/service"
	"support-assistant/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService     service.ChatService
	FeedbackService service.FeedbackService
	HintService     service.HintService
	SyncRunner      handlers.SyncRunner
	JobLister       handlers.JobLister
	Hints           handlers.HintRegenerator
	Knowledge       KnowledgeStore
	VectorIndex     vectorstore.VectorIndex
}

// KnowledgeStore is the read surface the router needs from the knowledge base.
type KnowledgeStore interface {
	handlers.ItemLister
	handlers.KnowledgeCounter
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	feedbackHandler := handlers.NewFeedbackHandler(deps.FeedbackService)
	hintHandler := handlers.NewHintHandler(deps.HintService)
	syncHandler := handlers.NewSyncHandler(deps.SyncRunner, deps.JobLister, deps.Hints, deps.Knowledge)
	healthHandler := handlers.NewHealthHandler(deps.VectorIndex, deps.Knowledge)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/searchHint", hintHandler)
		r.Method(http.MethodPost, "/feedback", feedbackHandler)
		r.Post("/update-knowledge", syncHandler.UpdateKnowledge)
		r.Post("/update-knowledge/full", syncHandler.UpdateKnowledgeFull)
		r.Post("/refresh-search-hints", syncHandler.RefreshHints)
		r.Get("/scheduler-jobs", syncHandler.SchedulerJobs)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
