package handlers

import (
	"context"
	"errors"
	"net/http"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/knowledge"
	syncengine "support-assistant/internal/sync"
)

// SyncRunner triggers knowledge-base synchronization.
type SyncRunner interface {
	FullSync(ctx context.Context) (syncengine.Result, error)
	IncrementalSync(ctx context.Context) (syncengine.Result, error)
}

// JobLister reports the scheduled sync jobs.
type JobLister interface {
	IsRunning() bool
	Jobs() []syncengine.JobStatus
}

// HintRegenerator rebuilds the search hints from knowledge items.
type HintRegenerator interface {
	Generate(items []knowledge.Item) error
	Len() int
}

// ItemLister provides the current knowledge items.
type ItemLister interface {
	Items() []knowledge.Item
}

// SyncHandler exposes the admin endpoints for manual syncs, hint refreshes,
// and scheduler inspection.
type SyncHandler struct {
	runner SyncRunner
	jobs   JobLister
	hints  HintRegenerator
	items  ItemLister
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(runner SyncRunner, jobs JobLister, hints HintRegenerator, items ItemLister) *SyncHandler {
	return &SyncHandler{
		runner: runner,
		jobs:   jobs,
		hints:  hints,
		items:  items,
	}
}

// SyncResponse represents the outcome of a manual sync.
type SyncResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Result  syncengine.Result `json:"result"`
}

// UpdateKnowledge handles POST /api/update-knowledge, a manual incremental sync.
func (h *SyncHandler) UpdateKnowledge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	result, err := h.runner.IncrementalSync(ctx)
	if err != nil {
		if errors.Is(err, syncengine.ErrSyncInProgress) {
			writeError(w, http.StatusConflict, "A sync is already running")
			return
		}
		logger.ErrorContext(ctx, "incremental sync failed", "error", err)
		writeError(w, http.StatusInternalServerError, "知识库增量更新失败")
		return
	}

	status, message := "success", "知识库增量更新成功"
	if result.Fetched == 0 {
		status, message = "info", "无需更新"
	}
	writeJSON(w, http.StatusOK, SyncResponse{Status: status, Message: message, Result: result})
}

// UpdateKnowledgeFull handles POST /api/update-knowledge/full, a manual full rebuild.
func (h *SyncHandler) UpdateKnowledgeFull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	result, err := h.runner.FullSync(ctx)
	if err != nil {
		if errors.Is(err, syncengine.ErrSyncInProgress) {
			writeError(w, http.StatusConflict, "A sync is already running")
			return
		}
		logger.ErrorContext(ctx, "full sync failed", "error", err)
		writeError(w, http.StatusInternalServerError, "知识库全量更新失败")
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Status:  "success",
		Message: "知识库全量更新成功",
		Result:  result,
	})
}

// RefreshHintsResponse represents the outcome of a manual hint refresh.
type RefreshHintsResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	HintCount int    `json:"hint_count"`
}

// RefreshHints handles POST /api/refresh-search-hints, regenerating the hint
// list from the current knowledge base.
func (h *SyncHandler) RefreshHints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := h.hints.Generate(h.items.Items()); err != nil {
		logger.ErrorContext(ctx, "failed to refresh search hints", "error", err)
		writeError(w, http.StatusInternalServerError, "刷新搜索提示失败")
		return
	}

	writeJSON(w, http.StatusOK, RefreshHintsResponse{
		Status:    "success",
		Message:   "搜索提示列表刷新成功",
		HintCount: h.hints.Len(),
	})
}

// SchedulerJobsResponse represents the scheduler inspection payload.
type SchedulerJobsResponse struct {
	Status string `json:"status"`
	Data   struct {
		IsRunning bool                   `json:"is_running"`
		Jobs      []syncengine.JobStatus `json:"jobs"`
	} `json:"data"`
}

// SchedulerJobs handles GET /api/scheduler-jobs.
func (h *SyncHandler) SchedulerJobs(w http.ResponseWriter, r *http.Request) {
	resp := SchedulerJobsResponse{Status: "success"}
	resp.Data.IsRunning = h.jobs.IsRunning()
	resp.Data.Jobs = h.jobs.Jobs()
	if resp.Data.Jobs == nil {
		resp.Data.Jobs = []syncengine.JobStatus{}
	}
	writeJSON(w, http.StatusOK, resp)
}
