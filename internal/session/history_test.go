package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

// fakeKV is an in-memory KV recording TTLs.
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *fakeKV) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func TestHistoryUnknownSession(t *testing.T) {
	store := NewHistoryStore(newFakeKV())
	history, err := store.History(context.Background(), "missing")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("got %d messages for unknown session, want 0", len(history))
	}
}

func TestAppendAndRead(t *testing.T) {
	kv := newFakeKV()
	store := NewHistoryStore(kv)
	ctx := context.Background()

	if err := store.Append(ctx, "s1",
		Message{Role: "user", Content: "怎么开户"},
		Message{Role: "assistant", Content: "开户步骤如下"},
	); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(ctx, "s1", Message{Role: "user", Content: "收费吗"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d messages, want 3", len(history))
	}
	if history[0].Content != "怎么开户" || history[2].Content != "收费吗" {
		t.Errorf("history out of order: %v", history)
	}
}

func TestAppendRefreshesTTL(t *testing.T) {
	kv := newFakeKV()
	store := NewHistoryStore(kv)

	if err := store.Append(context.Background(), "s1", Message{Role: "user", Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	if ttl := kv.ttls[historyKey("s1")]; ttl != 90*24*time.Hour {
		t.Errorf("TTL = %v, want 90 days", ttl)
	}
}

func TestAppendKeyFormat(t *testing.T) {
	kv := newFakeKV()
	store := NewHistoryStore(kv)

	if err := store.Append(context.Background(), "abc", Message{Role: "user", Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := kv.data["ai-support:session:abc:history"]; !ok {
		t.Errorf("history stored under wrong key: %v", keysOf(kv.data))
	}
}

func TestAppendRequiresSessionID(t *testing.T) {
	store := NewHistoryStore(newFakeKV())
	if err := store.Append(context.Background(), "", Message{Role: "user", Content: "hi"}); err == nil {
		t.Error("Append() with empty session id should fail")
	}
}

func TestAppendEmptyIsNoop(t *testing.T) {
	kv := newFakeKV()
	store := NewHistoryStore(kv)
	if err := store.Append(context.Background(), "s1"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if len(kv.data) != 0 {
		t.Error("empty append should not write")
	}
}

func TestConcurrentAppendsSameSessionLoseNothing(t *testing.T) {
	kv := newFakeKV()
	store := NewHistoryStore(kv)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Append(ctx, "s1", Message{Role: "user", Content: "m"}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != writers {
		t.Errorf("got %d messages after %d concurrent appends", len(history), writers)
	}
}

func TestHistoryMalformedPayload(t *testing.T) {
	kv := newFakeKV()
	kv.data[historyKey("s1")] = "{broken"
	store := NewHistoryStore(kv)

	if _, err := store.History(context.Background(), "s1"); err == nil {
		t.Error("History() on malformed payload should fail")
	}
}

func TestHistoryRoundTripsJSON(t *testing.T) {
	kv := newFakeKV()
	store := NewHistoryStore(kv)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", Message{Role: "user", Content: "你好"}); err != nil {
		t.Fatal(err)
	}

	var stored []Message
	if err := json.Unmarshal([]byte(kv.data[historyKey("s1")]), &stored); err != nil {
		t.Fatalf("stored payload is not valid JSON: %v", err)
	}
	if stored[0].Role != "user" || stored[0].Content != "你好" {
		t.Errorf("stored payload = %v", stored)
	}
	if stored[0].Timestamp == "" {
		t.Error("append should stamp messages with a timestamp")
	}
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
