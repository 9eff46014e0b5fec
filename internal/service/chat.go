package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService support-assistant/internal/service ChatService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks support-assistant/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_dependencies.go -package=mocks support-assistant/internal/service Retriever,HistoryStore,SessionArchiver,FeedbackSubmitter,HintProvider

import (
	"context"
	"errors"
	"sync"
	"time"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/knowledge"
	"support-assistant/internal/prompt"
	"support-assistant/internal/retrieval"
	"support-assistant/internal/session"
)

// chatTopK is how many knowledge items go into a chat prompt.
const chatTopK = 3

// persistTimeout bounds the background history and archive writes that
// outlive the request.
const persistTimeout = 30 * time.Second

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Chat sends a prompt to the LLM and returns the reply.
	Chat(ctx context.Context, prompt string) (string, error)
}

// Retriever ranks knowledge items against a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Match, error)
}

// HistoryStore reads and appends per-session conversation history.
type HistoryStore interface {
	History(ctx context.Context, sessionID string) ([]session.Message, error)
	Append(ctx context.Context, sessionID string, messages ...session.Message) error
}

// SessionArchiver persists finished conversation turns to long-term storage.
type SessionArchiver interface {
	ArchiveSession(ctx context.Context, sessionID string, history []session.Message) error
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	SessionID string `validate:"required"`
	Query     string `validate:"required"`
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Content   string
	SessionID string
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	llmClient LLMClient
	retriever Retriever
	history   HistoryStore
	archiver  SessionArchiver

	// wg tracks background persistence so shutdown can wait for it.
	wg sync.WaitGroup
}

// NewChatService creates a new ChatService.
func NewChatService(llmClient LLMClient, retriever Retriever, history HistoryStore, archiver SessionArchiver) ChatService {
	return &chatService{
		llmClient: llmClient,
		retriever: retriever,
		history:   history,
		archiver:  archiver,
	}
}

// ProcessChat answers one user query: it assembles a prompt from the session
// history and the retrieved knowledge, asks the LLM, and records the
// exchange in the background so the response is not delayed by storage.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if req.SessionID == "" {
		logger.WarnContext(ctx, "missing session id in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "session_id",
			Message: "cannot be empty",
		}
	}
	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "query",
			Message: "cannot be empty",
		}
	}

	history, err := s.history.History(ctx, req.SessionID)
	if err != nil {
		// A lost history degrades the prompt, it does not block the answer.
		logger.WarnContext(ctx, "failed to load session history", "session_id", req.SessionID, "error", err)
		history = nil
	}

	items := s.retrieveKnowledge(ctx, req.Query)
	promptText := prompt.Build(history, req.Query, items)

	reply, err := s.llmClient.Chat(ctx, promptText)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return ChatResponse{}, WrapError(err, "failed to get LLM response")
	}

	s.persistExchange(ctx, req.SessionID, req.Query, reply)

	logger.InfoContext(ctx, "chat request processed successfully",
		"session_id", req.SessionID, "query_length", len(req.Query),
		"knowledge_items", len(items), "reply_length", len(reply))
	return ChatResponse{
		Content:   reply,
		SessionID: req.SessionID,
	}, nil
}

// retrieveKnowledge fetches ranked knowledge for the query. Retrieval
// failures degrade to an empty knowledge block rather than failing the chat.
func (s *chatService) retrieveKnowledge(ctx context.Context, query string) []knowledge.Item {
	logger := contextutil.LoggerFromContext(ctx)

	matches, err := s.retriever.Retrieve(ctx, query, chatTopK)
	if err != nil {
		if errors.Is(err, retrieval.ErrNotInitialized) {
			logger.WarnContext(ctx, "knowledge index not initialized, answering without knowledge")
		} else {
			logger.ErrorContext(ctx, "retrieval failed, answering without knowledge", "error", err)
		}
		return nil
	}

	items := make([]knowledge.Item, 0, len(matches))
	for _, match := range matches {
		items = append(items, match.Item)
	}
	return items
}

// persistExchange records the user turn and the reply in the session history
// and archives the updated conversation, detached from the request context
// so a closed connection cannot lose the turn.
func (s *chatService) persistExchange(ctx context.Context, sessionID, query, reply string) {
	logger := contextutil.LoggerFromContext(ctx)
	bgCtx := contextutil.WithLogger(context.WithoutCancel(ctx), logger)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		persistCtx, cancel := context.WithTimeout(bgCtx, persistTimeout)
		defer cancel()

		err := s.history.Append(persistCtx, sessionID,
			session.Message{Role: "user", Content: query},
			session.Message{Role: "assistant", Content: reply},
		)
		if err != nil {
			logger.ErrorContext(persistCtx, "failed to append session history", "session_id", sessionID, "error", err)
			return
		}

		full, err := s.history.History(persistCtx, sessionID)
		if err != nil {
			logger.ErrorContext(persistCtx, "failed to reload history for archiving", "session_id", sessionID, "error", err)
			return
		}
		if err := s.archiver.ArchiveSession(persistCtx, sessionID, full); err != nil {
			logger.ErrorContext(persistCtx, "failed to archive session", "session_id", sessionID, "error", err)
		}
	}()
}

// Wait blocks until all background persistence has finished. Called during
// shutdown.
func (s *chatService) Wait() {
	s.wg.Wait()
}
