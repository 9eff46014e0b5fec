package handlers

import (
	"encoding/json"
	"net/http"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/service"
)

// FeedbackHandler handles HTTP requests for answer feedback.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// FeedbackRequest represents the HTTP request payload for feedback.
type FeedbackRequest struct {
	Satisfaction string `json:"satisfaction"`
	Tag          string `json:"tag,omitempty"`
	Commit       string `json:"commit,omitempty"`
	SessionID    string `json:"session_id"`
	FeedbackID   string `json:"feedback_id"`
}

// FeedbackResponse represents the HTTP response payload for feedback.
type FeedbackResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	FeedbackID string `json:"feedback_id"`
	SessionID  string `json:"session_id"`
}

// ServeHTTP handles HTTP requests for feedback.
func (h *FeedbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.feedbackService.ProcessFeedback(ctx, service.FeedbackRequest{
		Satisfaction: req.Satisfaction,
		Tag:          req.Tag,
		Comment:      req.Commit,
		SessionID:    req.SessionID,
		FeedbackID:   req.FeedbackID,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process feedback")
		return
	}

	writeJSON(w, http.StatusOK, FeedbackResponse{
		Success:    svcResp.Success,
		Message:    svcResp.Message,
		FeedbackID: svcResp.FeedbackID,
		SessionID:  svcResp.SessionID,
	})
}
