package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"support-assistant/internal/contextutil"
	"support-assistant/internal/embedding"
	"support-assistant/internal/knowledge"
	"support-assistant/internal/vectorstore"
)

// Scoring weights for the hybrid ranking: vector similarity dominates,
// keyword overlap breaks near-ties and rescues lexical matches the
// embedding missed.
const (
	similarityWeight = 0.7
	keywordWeight    = 0.3
)

// ErrNotInitialized is returned when the vector collection holds no records
// yet, which is distinct from a query that simply matches nothing.
var ErrNotInitialized = errors.New("knowledge index not initialized")

// Embedder produces one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Match is one ranked knowledge item with its scoring breakdown.
type Match struct {
	Item         knowledge.Item
	Distance     float32
	KeywordScore float64
	Score        float64
}

// Retriever ranks knowledge items against a user query by combining vector
// similarity with keyword overlap.
type Retriever struct {
	embedder Embedder
	index    vectorstore.VectorIndex
	store    *knowledge.Store
}

// NewRetriever creates a retriever over the given embedder, index, and
// knowledge store.
func NewRetriever(embedder Embedder, index vectorstore.VectorIndex, store *knowledge.Store) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		store:    store,
	}
}

// Retrieve returns up to topK knowledge items ranked by combined score.
// The query is normalized before embedding; candidates come from an
// overfetched nearest-neighbor search and are re-ranked with keyword
// overlap. An empty index yields ErrNotInitialized; an unembeddable query
// yields no matches.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Match, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than 0")
	}

	normalized := knowledge.NormalizeQuery(query)
	if normalized == "" {
		logger.DebugContext(ctx, "query is all filler, nothing to retrieve", "query", query)
		return nil, nil
	}

	count, err := r.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count index: %w", err)
	}
	if count == 0 {
		return nil, ErrNotInitialized
	}

	vectors, err := r.embedder.Embed(ctx, []string{normalized})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 || embedding.IsZero(vectors[0]) {
		logger.WarnContext(ctx, "query produced no embedding signal", "query", normalized)
		return nil, nil
	}

	// Overfetch so keyword re-ranking has candidates beyond the raw
	// nearest neighbors, capped at the collection size.
	fetch := 2 * topK
	if fetch > count {
		fetch = count
	}

	candidates, err := r.index.Query(ctx, vectors[0], fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		itemID, ok := candidate.Meta["id"].(string)
		if !ok || itemID == "" {
			logger.WarnContext(ctx, "skipping candidate without item id", "record_id", candidate.RecordID)
			continue
		}
		item, ok := r.store.Get(itemID)
		if !ok {
			logger.WarnContext(ctx, "skipping candidate missing from knowledge store", "id", itemID)
			continue
		}

		similarity := 1 - float64(candidate.Distance)
		if similarity < 0 {
			similarity = 0
		}
		keywordScore := keywordOverlap(normalized, item.Keywords)

		matches = append(matches, Match{
			Item:         item,
			Distance:     candidate.Distance,
			KeywordScore: keywordScore,
			Score:        similarity*similarityWeight + keywordScore*keywordWeight,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	logger.DebugContext(ctx, "retrieval completed",
		"query", normalized, "candidates", len(candidates), "matches", len(matches))
	return matches, nil
}

// keywordOverlap scores how many of the item's keyword tokens appear in the
// query, as a fraction of the total. Keywords are whitespace-separated; a
// keyword matches when it occurs as a substring of the query,
// case-insensitively.
func keywordOverlap(query, keywords string) float64 {
	tokens := strings.Fields(keywords)
	if len(tokens) == 0 {
		return 0
	}
	lowered := strings.ToLower(query)
	matched := 0
	for _, token := range tokens {
		if strings.Contains(lowered, strings.ToLower(token)) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}
