package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_feedback_service.go -package=mocks -mock_names=FeedbackService=MockFeedbackService support-assistant/internal/service FeedbackService

import (
	"context"
	"encoding/json"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/session"
)

// missingHistoryMarker is stored in place of a history that has expired from
// the session store, so feedback on an old conversation is still usable.
const missingHistoryMarker = "没有历史记录 - 可能超过三个月"

// FeedbackSubmitter persists one feedback record.
type FeedbackSubmitter interface {
	SubmitFeedback(ctx context.Context, feedbackID, goodOrBad, sessionID, historyJSON string) error
}

// FeedbackRequest represents a feedback request in the domain layer.
type FeedbackRequest struct {
	Satisfaction string `validate:"required"`
	Tag          string
	Comment      string
	SessionID    string `validate:"required"`
	FeedbackID   string `validate:"required"`
}

// FeedbackResponse represents the outcome of submitting feedback.
type FeedbackResponse struct {
	Success    bool
	Message    string
	FeedbackID string
	SessionID  string
}

// FeedbackService records user verdicts on assistant answers.
type FeedbackService interface {
	// ProcessFeedback stores one feedback record along with the session
	// history it refers to.
	ProcessFeedback(ctx context.Context, req FeedbackRequest) (FeedbackResponse, error)
}

type feedbackService struct {
	submitter FeedbackSubmitter
	history   HistoryStore
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(submitter FeedbackSubmitter, history HistoryStore) FeedbackService {
	return &feedbackService{
		submitter: submitter,
		history:   history,
	}
}

// ProcessFeedback attaches the session history to the feedback and submits
// it. A missing history is replaced with a marker rather than rejected,
// since feedback can arrive long after the session expired.
func (s *feedbackService) ProcessFeedback(ctx context.Context, req FeedbackRequest) (FeedbackResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.FeedbackID == "" {
		return FeedbackResponse{}, &ValidationError{Field: "feedback_id", Message: "cannot be empty"}
	}
	if req.SessionID == "" {
		return FeedbackResponse{}, &ValidationError{Field: "session_id", Message: "cannot be empty"}
	}
	if req.Satisfaction == "" {
		return FeedbackResponse{}, &ValidationError{Field: "satisfaction", Message: "cannot be empty"}
	}

	history, err := s.history.History(ctx, req.SessionID)
	if err != nil {
		logger.WarnContext(ctx, "failed to load history for feedback", "session_id", req.SessionID, "error", err)
		history = nil
	}
	if len(history) == 0 {
		logger.WarnContext(ctx, "no session history for feedback", "session_id", req.SessionID)
		history = []session.Message{{Role: "system", Content: missingHistoryMarker}}
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return FeedbackResponse{}, WrapError(err, "failed to encode session history")
	}

	if err := s.submitter.SubmitFeedback(ctx, req.FeedbackID, req.Satisfaction, req.SessionID, string(historyJSON)); err != nil {
		logger.ErrorContext(ctx, "failed to submit feedback", "feedback_id", req.FeedbackID, "error", err)
		return FeedbackResponse{
			Success:    false,
			Message:    "反馈提交失败",
			FeedbackID: req.FeedbackID,
			SessionID:  req.SessionID,
		}, WrapError(err, "failed to submit feedback")
	}

	logger.InfoContext(ctx, "feedback submitted", "feedback_id", req.FeedbackID, "session_id", req.SessionID)
	return FeedbackResponse{
		Success:    true,
		Message:    "反馈提交成功",
		FeedbackID: req.FeedbackID,
		SessionID:  req.SessionID,
	}, nil
}
