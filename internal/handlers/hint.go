package handlers

import (
	"encoding/json"
	"net/http"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/service"
)

// HintHandler handles HTTP requests for question autocomplete.
type HintHandler struct {
	hintService service.HintService
}

// NewHintHandler creates a new HintHandler.
func NewHintHandler(hintService service.HintService) *HintHandler {
	return &HintHandler{
		hintService: hintService,
	}
}

// HintRequest represents the HTTP request payload for autocomplete.
type HintRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// HintResponse represents the HTTP response payload for autocomplete.
// SourceID is set only when every suggestion traces to one knowledge item.
type HintResponse struct {
	Suggestions []string `json:"suggestions"`
	SourceID    *string  `json:"source_id"`
}

// ServeHTTP handles HTTP requests for autocomplete.
func (h *HintHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req HintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.hintService.SearchHints(ctx, service.HintRequest{
		Query: req.Query,
		Limit: req.Limit,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to search hints")
		return
	}

	resp := HintResponse{Suggestions: svcResp.Suggestions}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	if svcResp.SourceID != "" {
		resp.SourceID = &svcResp.SourceID
	}
	writeJSON(w, http.StatusOK, resp)
}
