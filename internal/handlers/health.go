package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/vectorstore"
)

// KnowledgeCounter reports how many knowledge items are loaded.
type KnowledgeCounter interface {
	Len() int
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	index              vectorstore.VectorIndex
	knowledge          KnowledgeCounter
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(index vectorstore.VectorIndex, knowledge KnowledgeCounter) *HealthHandler {
	return &HealthHandler{
		index:              index,
		knowledge:          knowledge,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if count, err := h.index.Count(checkCtx); err != nil {
		logger.WarnContext(ctx, "vector index health check failed", "error", err)
		checks["vector_index"] = "error"
		issues = append(issues, "vector_index_unavailable")
	} else if count == 0 {
		checks["vector_index"] = "empty"
		issues = append(issues, "vector_index_empty")
	} else {
		checks["vector_index"] = "ok"
	}

	if h.knowledge.Len() == 0 {
		checks["knowledge_base"] = "empty"
		issues = append(issues, "knowledge_base_empty")
	} else {
		checks["knowledge_base"] = "ok"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if len(issues) > 0 {
		response.Issues = issues
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
