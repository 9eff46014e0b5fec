package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"support-assistant/internal/contextutil"
)

// historyTTL keeps a session alive for 90 days; every append refreshes it so
// active conversations never expire mid-session.
const historyTTL = 90 * 24 * time.Hour

// ErrNotFound is returned by a KV when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Message is one turn in a conversation. Role is "user" or "assistant".
// Timestamp is stamped on append when the caller leaves it empty.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// KV is the key-value backend histories are stored in.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
}

// HistoryStore persists per-session conversation history as a JSON array
// under one key per session. Appends are read-modify-write, serialized per
// session so concurrent requests on the same session cannot drop turns.
type HistoryStore struct {
	kv KV

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewHistoryStore creates a history store over the given backend.
func NewHistoryStore(kv KV) *HistoryStore {
	return &HistoryStore{
		kv:    kv,
		locks: make(map[string]*sync.Mutex),
	}
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("ai-support:session:%s:history", sessionID)
}

// sessionLock returns the mutex serializing writes for one session.
func (s *HistoryStore) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// History returns the conversation history for the session, oldest first.
// An unknown session has an empty history.
func (s *HistoryStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	raw, err := s.kv.Get(ctx, historyKey(sessionID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session history: %w", err)
	}

	var history []Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("failed to parse session history: %w", err)
	}
	return history, nil
}

// Append adds messages to the end of the session history and refreshes its
// TTL. Concurrent appends to the same session are serialized; appends to
// different sessions proceed independently.
func (s *HistoryStore) Append(ctx context.Context, sessionID string, messages ...Message) error {
	logger := contextutil.LoggerFromContext(ctx)

	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if len(messages) == 0 {
		return nil
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for i := range messages {
		if messages[i].Timestamp == "" {
			messages[i].Timestamp = now
		}
	}
	history = append(history, messages...)

	encoded, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode session history: %w", err)
	}
	if err := s.kv.SetWithTTL(ctx, historyKey(sessionID), string(encoded), historyTTL); err != nil {
		return fmt.Errorf("failed to write session history: %w", err)
	}

	logger.DebugContext(ctx, "appended to session history",
		"session_id", sessionID, "appended", len(messages), "total", len(history))
	return nil
}
