package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"support-assistant/internal/knowledge"
	"support-assistant/internal/service/mocks"
	syncengine "support-assistant/internal/sync"
	"support-assistant/internal/vectorstore"

	"go.uber.org/mock/gomock"
)

type stubSyncRunner struct{}

func (stubSyncRunner) FullSync(ctx context.Context) (syncengine.Result, error) {
	return syncengine.Result{}, nil
}

func (stubSyncRunner) IncrementalSync(ctx context.Context) (syncengine.Result, error) {
	return syncengine.Result{}, nil
}

type stubJobLister struct{}

func (stubJobLister) IsRunning() bool              { return false }
func (stubJobLister) Jobs() []syncengine.JobStatus { return nil }

type stubHints struct{}

func (stubHints) Generate(items []knowledge.Item) error { return nil }
func (stubHints) Len() int                              { return 0 }

type emptyIndex struct{}

func (emptyIndex) Upsert(ctx context.Context, records []vectorstore.Record) error { return nil }

func (emptyIndex) Query(ctx context.Context, embedding []float32, k int) ([]vectorstore.Candidate, error) {
	return nil, nil
}

func (emptyIndex) Recreate(ctx context.Context) error { return nil }

func (emptyIndex) Count(ctx context.Context) (int, error) { return 0, nil }

func (emptyIndex) Peek(ctx context.Context, n int) ([]vectorstore.Candidate, error) {
	return nil, nil
}

func newTestDeps(t *testing.T, ctrl *gomock.Controller) *Deps {
	t.Helper()
	store := knowledge.NewStore(filepath.Join(t.TempDir(), "knowledge.json"))
	return &Deps{
		ChatService:     mocks.NewMockChatService(ctrl),
		FeedbackService: mocks.NewMockFeedbackService(ctrl),
		HintService:     mocks.NewMockHintService(ctrl),
		SyncRunner:      stubSyncRunner{},
		JobLister:       stubJobLister{},
		Hints:           stubHints{},
		Knowledge:       store,
		VectorIndex:     emptyIndex{},
	}
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(newTestDeps(t, ctrl))
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(newTestDeps(t, ctrl))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "POST /api/chat exists",
			method:     http.MethodPost,
			path:       "/api/chat",
			wantStatus: http.StatusBadRequest, // route exists, body is empty
		},
		{
			name:       "GET /api/chat method not allowed",
			method:     http.MethodGet,
			path:       "/api/chat",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "POST /api/searchHint exists",
			method:     http.MethodPost,
			path:       "/api/searchHint",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/feedback exists",
			method:     http.MethodPost,
			path:       "/api/feedback",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/update-knowledge exists",
			method:     http.MethodPost,
			path:       "/api/update-knowledge",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/update-knowledge/full exists",
			method:     http.MethodPost,
			path:       "/api/update-knowledge/full",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/refresh-search-hints exists",
			method:     http.MethodPost,
			path:       "/api/refresh-search-hints",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/scheduler-jobs exists",
			method:     http.MethodGet,
			path:       "/api/scheduler-jobs",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/health exists",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusServiceUnavailable, // empty index and store
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/unknown",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(newTestDeps(t, ctrl))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
