package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"support-assistant/internal/service"
	"support-assistant/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestHintHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHintService := mocks.NewMockHintService(ctrl)
	handler := NewHintHandler(mockHintService)

	mockHintService.EXPECT().
		SearchHints(gomock.Any(), service.HintRequest{Query: "开户", Limit: 5}).
		Return(service.HintResponse{
			Suggestions: []string{"开户流程", "开户费用"},
			SourceID:    "1",
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/searchHint",
		strings.NewReader(`{"query": "开户", "limit": 5}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HintResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Suggestions) != 2 || resp.Suggestions[0] != "开户流程" {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}
	if resp.SourceID == nil || *resp.SourceID != "1" {
		t.Errorf("source_id = %v, want 1", resp.SourceID)
	}
}

func TestHintHandler_NoSourceID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHintService := mocks.NewMockHintService(ctrl)
	handler := NewHintHandler(mockHintService)

	mockHintService.EXPECT().
		SearchHints(gomock.Any(), gomock.Any()).
		Return(service.HintResponse{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/searchHint",
		strings.NewReader(`{"query": "xyz"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"suggestions":[]`) {
		t.Errorf("suggestions should encode as an empty array: %s", body)
	}
	if !strings.Contains(body, `"source_id":null`) {
		t.Errorf("absent source_id should encode as null: %s", body)
	}
}

func TestHintHandler_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHintService := mocks.NewMockHintService(ctrl)
	handler := NewHintHandler(mockHintService)

	mockHintService.EXPECT().
		SearchHints(gomock.Any(), gomock.Any()).
		Return(service.HintResponse{}, &service.ValidationError{Field: "query", Message: "cannot be empty"})

	req := httptest.NewRequest(http.MethodPost, "/api/searchHint", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
