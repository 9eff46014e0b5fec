package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"support-assistant/internal/knowledge"
	syncengine "support-assistant/internal/sync"
)

type fakeSyncRunner struct {
	fullResult syncengine.Result
	incResult  syncengine.Result
	fullErr    error
	incErr     error
	fullCalls  int
	incCalls   int
}

func (f *fakeSyncRunner) FullSync(ctx context.Context) (syncengine.Result, error) {
	f.fullCalls++
	return f.fullResult, f.fullErr
}

func (f *fakeSyncRunner) IncrementalSync(ctx context.Context) (syncengine.Result, error) {
	f.incCalls++
	return f.incResult, f.incErr
}

type fakeJobLister struct {
	running bool
	jobs    []syncengine.JobStatus
}

func (f *fakeJobLister) IsRunning() bool              { return f.running }
func (f *fakeJobLister) Jobs() []syncengine.JobStatus { return f.jobs }

type fakeHintRegenerator struct {
	err       error
	count     int
	generated []knowledge.Item
}

func (f *fakeHintRegenerator) Generate(items []knowledge.Item) error {
	f.generated = items
	return f.err
}

func (f *fakeHintRegenerator) Len() int { return f.count }

type fakeItemLister struct {
	items []knowledge.Item
}

func (f *fakeItemLister) Items() []knowledge.Item { return f.items }

func TestSyncHandler_UpdateKnowledge(t *testing.T) {
	tests := []struct {
		name       string
		result     syncengine.Result
		err        error
		wantStatus int
		wantField  string
	}{
		{
			name:       "changes applied",
			result:     syncengine.Result{Fetched: 5, Updated: 3, Added: 2, Indexed: 5},
			wantStatus: http.StatusOK,
			wantField:  "success",
		},
		{
			name:       "nothing to update",
			result:     syncengine.Result{},
			wantStatus: http.StatusOK,
			wantField:  "info",
		},
		{
			name:       "sync already running",
			err:        syncengine.ErrSyncInProgress,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "sync failure",
			err:        errors.New("cms unreachable"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeSyncRunner{incResult: tt.result, incErr: tt.err}
			handler := NewSyncHandler(runner, &fakeJobLister{}, &fakeHintRegenerator{}, &fakeItemLister{})

			req := httptest.NewRequest(http.MethodPost, "/api/update-knowledge", nil)
			w := httptest.NewRecorder()
			handler.UpdateKnowledge(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantField == "" {
				return
			}
			var resp SyncResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Status != tt.wantField {
				t.Errorf("status field = %q, want %q", resp.Status, tt.wantField)
			}
			if resp.Result.Fetched != tt.result.Fetched {
				t.Errorf("result fetched = %d, want %d", resp.Result.Fetched, tt.result.Fetched)
			}
		})
	}
}

func TestSyncHandler_UpdateKnowledgeFull(t *testing.T) {
	runner := &fakeSyncRunner{fullResult: syncengine.Result{Fetched: 10, Indexed: 9, Skipped: 1}}
	handler := NewSyncHandler(runner, &fakeJobLister{}, &fakeHintRegenerator{}, &fakeItemLister{})

	req := httptest.NewRequest(http.MethodPost, "/api/update-knowledge/full", nil)
	w := httptest.NewRecorder()
	handler.UpdateKnowledgeFull(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if runner.fullCalls != 1 {
		t.Errorf("full sync calls = %d, want 1", runner.fullCalls)
	}
	var resp SyncResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "success" || resp.Message != "知识库全量更新成功" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Result.Indexed != 9 || resp.Result.Skipped != 1 {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestSyncHandler_UpdateKnowledgeFull_Conflict(t *testing.T) {
	runner := &fakeSyncRunner{fullErr: syncengine.ErrSyncInProgress}
	handler := NewSyncHandler(runner, &fakeJobLister{}, &fakeHintRegenerator{}, &fakeItemLister{})

	req := httptest.NewRequest(http.MethodPost, "/api/update-knowledge/full", nil)
	w := httptest.NewRecorder()
	handler.UpdateKnowledgeFull(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestSyncHandler_RefreshHints(t *testing.T) {
	items := []knowledge.Item{
		{ID: "1", FAQ: "如何开户"},
		{ID: "2", FAQ: "如何充值"},
	}
	hints := &fakeHintRegenerator{count: 4}
	handler := NewSyncHandler(&fakeSyncRunner{}, &fakeJobLister{}, hints, &fakeItemLister{items: items})

	req := httptest.NewRequest(http.MethodPost, "/api/refresh-search-hints", nil)
	w := httptest.NewRecorder()
	handler.RefreshHints(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(hints.generated) != 2 {
		t.Errorf("generated from %d items, want 2", len(hints.generated))
	}
	var resp RefreshHintsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.HintCount != 4 {
		t.Errorf("hint_count = %d, want 4", resp.HintCount)
	}
}

func TestSyncHandler_RefreshHints_Failure(t *testing.T) {
	hints := &fakeHintRegenerator{err: errors.New("disk full")}
	handler := NewSyncHandler(&fakeSyncRunner{}, &fakeJobLister{}, hints, &fakeItemLister{})

	req := httptest.NewRequest(http.MethodPost, "/api/refresh-search-hints", nil)
	w := httptest.NewRecorder()
	handler.RefreshHints(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestSyncHandler_SchedulerJobs(t *testing.T) {
	next := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jobs := &fakeJobLister{
		running: true,
		jobs:    []syncengine.JobStatus{{Name: "incremental-sync", Next: next}},
	}
	handler := NewSyncHandler(&fakeSyncRunner{}, jobs, &fakeHintRegenerator{}, &fakeItemLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/scheduler-jobs", nil)
	w := httptest.NewRecorder()
	handler.SchedulerJobs(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp SchedulerJobsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Data.IsRunning {
		t.Error("is_running should be true")
	}
	if len(resp.Data.Jobs) != 1 || resp.Data.Jobs[0].Name != "incremental-sync" {
		t.Errorf("jobs = %+v", resp.Data.Jobs)
	}
}

func TestSyncHandler_SchedulerJobs_Stopped(t *testing.T) {
	handler := NewSyncHandler(&fakeSyncRunner{}, &fakeJobLister{}, &fakeHintRegenerator{}, &fakeItemLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/scheduler-jobs", nil)
	w := httptest.NewRecorder()
	handler.SchedulerJobs(w, req)

	var resp SchedulerJobsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.IsRunning {
		t.Error("is_running should be false")
	}
	if resp.Data.Jobs == nil {
		t.Error("jobs should encode as an empty array, not null")
	}
}
