package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_hint_service.go -package=mocks -mock_names=HintService=MockHintService support-assistant/internal/service HintService

import (
	"context"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/hints"
)

// defaultHintLimit applies when a request does not cap the suggestion count.
const defaultHintLimit = 20

// HintProvider scores autocomplete hints and attributes them to knowledge
// items.
type HintProvider interface {
	Suggest(input string, limit int) []hints.Suggestion
	SourceOf(hint string) (string, bool)
}

// HintRequest represents an autocomplete request in the domain layer.
type HintRequest struct {
	Query string `validate:"required"`
	Limit int
}

// HintResponse carries the suggestions plus, when every suggestion traces
// back to the same knowledge item, that item's id.
type HintResponse struct {
	Suggestions []string
	SourceID    string
}

// HintService provides question autocomplete.
type HintService interface {
	// SearchHints returns hints matching the partial input.
	SearchHints(ctx context.Context, req HintRequest) (HintResponse, error)
}

type hintService struct {
	provider HintProvider
}

// NewHintService creates a new HintService.
func NewHintService(provider HintProvider) HintService {
	return &hintService{provider: provider}
}

// SearchHints scores hints against the partial input. SourceID is set only
// when all returned suggestions come from a single knowledge item, which
// lets the client jump straight to that item's answer.
func (s *hintService) SearchHints(ctx context.Context, req HintRequest) (HintResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Query == "" {
		return HintResponse{}, &ValidationError{Field: "query", Message: "cannot be empty"}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHintLimit
	}

	suggestions := s.provider.Suggest(req.Query, limit)
	resp := HintResponse{Suggestions: make([]string, 0, len(suggestions))}
	for _, suggestion := range suggestions {
		resp.Suggestions = append(resp.Suggestions, suggestion.Hint)
	}

	sources := make(map[string]struct{})
	for _, hint := range resp.Suggestions {
		if id, ok := s.provider.SourceOf(hint); ok {
			sources[id] = struct{}{}
		} else {
			sources[""] = struct{}{}
		}
	}
	if len(sources) == 1 {
		for id := range sources {
			resp.SourceID = id
		}
	}

	logger.DebugContext(ctx, "hint search completed",
		"query", req.Query, "suggestions", len(resp.Suggestions), "source_id", resp.SourceID)
	return resp, nil
}
