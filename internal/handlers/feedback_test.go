package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"support-assistant/internal/service"
	"support-assistant/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestFeedbackHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFeedbackService := mocks.NewMockFeedbackService(ctrl)
	handler := NewFeedbackHandler(mockFeedbackService)

	mockFeedbackService.EXPECT().
		ProcessFeedback(gomock.Any(), service.FeedbackRequest{
			Satisfaction: "good",
			Tag:          "helpful",
			SessionID:    "s1",
			FeedbackID:   "fb-1",
		}).
		Return(service.FeedbackResponse{
			Success:    true,
			Message:    "反馈提交成功",
			FeedbackID: "fb-1",
			SessionID:  "s1",
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(
		`{"satisfaction": "good", "tag": "helpful", "session_id": "s1", "feedback_id": "fb-1"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp FeedbackResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.FeedbackID != "fb-1" {
		t.Errorf("response = %+v", resp)
	}
}

func TestFeedbackHandler_SubmitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFeedbackService := mocks.NewMockFeedbackService(ctrl)
	handler := NewFeedbackHandler(mockFeedbackService)

	mockFeedbackService.EXPECT().
		ProcessFeedback(gomock.Any(), gomock.Any()).
		Return(service.FeedbackResponse{}, errors.New("cms down"))

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(
		`{"satisfaction": "good", "session_id": "s1", "feedback_id": "fb-1"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
