package hints

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-ego/gse"

	"support-assistant/internal/knowledge"
)

// Score tiers: an exact prefix beats a substring hit beats token overlap.
// Token overlap is scaled so it can never outrank the direct matches.
const (
	prefixScore    = 1.0
	substringScore = 0.8
	overlapWeight  = 0.6
)

// extraTerms are trading terms the stock dictionary segments badly; they are
// registered with the segmenter so "k线图" stays one token.
var extraTerms = []string{"k线", "k线图", "均线", "MACD", "KDJ"}

// Suggestion is one autocomplete hint with its relevance score.
type Suggestion struct {
	Hint  string  `json:"hint"`
	Score float64 `json:"score"`
}

// hintFile is the on-disk format: the ordered hint list plus a map from each
// hint back to the id of the knowledge item it came from.
type hintFile struct {
	Hints   []string          `json:"hints"`
	HintMap map[string]string `json:"hint_map"`
}

// Service scores autocomplete hints against user input. Hints are question
// phrasings extracted from the knowledge base, regenerated after every sync
// and persisted so restarts do not wait on a sync.
type Service struct {
	path string
	seg  gse.Segmenter

	mu      sync.RWMutex
	hints   []string
	hintMap map[string]string
}

// NewService creates a hint service backed by the JSON file at path. The
// segmenter dictionary is loaded eagerly since it is needed for every
// suggestion request.
func NewService(path string) (*Service, error) {
	s := &Service{
		path:    path,
		hintMap: make(map[string]string),
	}
	if err := s.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("failed to load segmenter dictionary: %w", err)
	}
	for _, term := range extraTerms {
		if err := s.seg.AddToken(term, 100, "n"); err != nil {
			return nil, fmt.Errorf("failed to register term %q: %w", term, err)
		}
	}
	return s, nil
}

// Load reads the hint file into memory. A missing file is not an error: the
// service starts empty and awaits a sync. A malformed file is an error and
// the in-memory state is left untouched.
func (s *Service) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read hint file %s: %w", s.path, err)
	}

	var file hintFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse hint file %s: %w", s.path, err)
	}
	if file.HintMap == nil {
		file.HintMap = make(map[string]string)
	}

	s.mu.Lock()
	s.hints = file.Hints
	s.hintMap = file.HintMap
	s.mu.Unlock()
	return nil
}

// Generate rebuilds the hint list from knowledge items and persists it. Each
// question phrasing becomes one hint; when two items share a phrasing the
// first occurrence keeps its source attribution.
func (s *Service) Generate(items []knowledge.Item) error {
	hints := make([]string, 0, len(items))
	hintMap := make(map[string]string, len(items))

	for _, item := range items {
		for _, phrasing := range item.Phrasings() {
			if _, seen := hintMap[phrasing]; seen {
				continue
			}
			hints = append(hints, phrasing)
			hintMap[phrasing] = item.ID
		}
	}

	if err := s.writeFile(hintFile{Hints: hints, HintMap: hintMap}); err != nil {
		return err
	}

	s.mu.Lock()
	s.hints = hints
	s.hintMap = hintMap
	s.mu.Unlock()
	return nil
}

// Suggest returns up to limit hints relevant to the input, best first. An
// exact prefix match scores 1.0, a substring match 0.8, and otherwise the
// score is the fraction of the input's tokens found in the hint, scaled by
// 0.6. Hints scoring zero are dropped. Ties keep hint-list order.
func (s *Service) Suggest(input string, limit int) []Suggestion {
	input = strings.TrimSpace(input)
	if input == "" || limit <= 0 {
		return nil
	}

	lowered := strings.ToLower(input)
	inputTokens := s.tokenSet(lowered)

	s.mu.RLock()
	hints := s.hints
	s.mu.RUnlock()

	suggestions := make([]Suggestion, 0, limit)
	for _, hint := range hints {
		score := s.score(lowered, inputTokens, strings.ToLower(hint))
		if score > 0 {
			suggestions = append(suggestions, Suggestion{Hint: hint, Score: score})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// SourceOf returns the id of the knowledge item the hint came from.
func (s *Service) SourceOf(hint string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.hintMap[hint]
	return id, ok
}

// Len returns the number of hints currently held.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hints)
}

func (s *Service) score(input string, inputTokens map[string]struct{}, hint string) float64 {
	if strings.HasPrefix(hint, input) {
		return prefixScore
	}
	if strings.Contains(hint, input) {
		return substringScore
	}
	if len(inputTokens) == 0 {
		return 0
	}

	seen := make(map[string]struct{})
	for _, token := range s.seg.Cut(hint, true) {
		if _, ok := inputTokens[token]; ok {
			seen[token] = struct{}{}
		}
	}
	return float64(len(seen)) / float64(len(inputTokens)) * overlapWeight
}

func (s *Service) tokenSet(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range s.seg.Cut(text, true) {
		token = strings.TrimSpace(token)
		if token != "" {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}

// writeFile persists the hint file atomically, temp file then rename.
func (s *Service) writeFile(file hintFile) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".hints-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp hint file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode hint file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp hint file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace hint file %s: %w", s.path, err)
	}
	return nil
}
