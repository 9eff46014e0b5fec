package hints

import (
	"os"
	"path/filepath"
	"testing"

	"support-assistant/internal/knowledge"
)

func newTestService(t *testing.T, items []knowledge.Item) *Service {
	t.Helper()
	s, err := NewService(filepath.Join(t.TempDir(), "search_hints.json"))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if items != nil {
		if err := s.Generate(items); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
	}
	return s
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestService(t, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if got := s.Suggest("开户", 10); len(got) != 0 {
		t.Errorf("Suggest() on empty service returned %d hints", len(got))
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_hints.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewService(path)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if err := s.Load(); err == nil {
		t.Error("Load() on malformed file should fail")
	}
}

func TestGeneratePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_hints.json")
	s, err := NewService(path)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	items := []knowledge.Item{
		{ID: "1", FAQ: "怎么开户\n开户流程是什么"},
		{ID: "2", FAQ: "怎么充值"},
	}
	if err := s.Generate(items); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	reloaded, err := NewService(path)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", reloaded.Len())
	}
	if id, ok := reloaded.SourceOf("怎么充值"); !ok || id != "2" {
		t.Errorf("SourceOf(怎么充值) = %q, %v; want 2, true", id, ok)
	}
}

func TestGenerateFirstOccurrenceWins(t *testing.T) {
	s := newTestService(t, []knowledge.Item{
		{ID: "1", FAQ: "怎么开户"},
		{ID: "2", FAQ: "怎么开户"},
	})
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (duplicate phrasing collapsed)", s.Len())
	}
	if id, _ := s.SourceOf("怎么开户"); id != "1" {
		t.Errorf("SourceOf = %q, want 1 (first occurrence keeps attribution)", id)
	}
}

func TestSuggestScoreTiers(t *testing.T) {
	s := newTestService(t, []knowledge.Item{
		{ID: "1", FAQ: "开户流程是什么"}, // prefix of input 开户
		{ID: "2", FAQ: "网上开户安全吗"}, // substring
		{ID: "3", FAQ: "充值怎么操作"},  // unrelated
	})

	got := s.Suggest("开户", 10)
	if len(got) != 2 {
		t.Fatalf("Suggest() returned %d hints, want 2", len(got))
	}
	if got[0].Hint != "开户流程是什么" || got[0].Score != 1.0 {
		t.Errorf("top = %q (%v), want prefix match at 1.0", got[0].Hint, got[0].Score)
	}
	if got[1].Hint != "网上开户安全吗" || got[1].Score != 0.8 {
		t.Errorf("second = %q (%v), want substring match at 0.8", got[1].Hint, got[1].Score)
	}
}

func TestSuggestTokenOverlap(t *testing.T) {
	s := newTestService(t, []knowledge.Item{
		{ID: "1", FAQ: "开户需要哪些材料"},
	})

	// Input shares the 开户 token but is neither a prefix nor a substring
	// of the hint.
	got := s.Suggest("开户收费", 10)
	if len(got) != 1 {
		t.Fatalf("Suggest() returned %d hints, want 1", len(got))
	}
	if got[0].Score <= 0 || got[0].Score >= substringScore {
		t.Errorf("overlap score = %v, want between 0 and %v", got[0].Score, substringScore)
	}
}

func TestSuggestTradingTerms(t *testing.T) {
	s := newTestService(t, []knowledge.Item{
		{ID: "1", FAQ: "k线图在哪里看"},
		{ID: "2", FAQ: "MACD指标怎么用"},
	})

	if got := s.Suggest("k线图", 10); len(got) == 0 {
		t.Error("Suggest(k线图) returned no hints")
	}
	if got := s.Suggest("macd", 10); len(got) == 0 {
		t.Error("Suggest(macd) returned no hints (match should be case-insensitive)")
	}
}

func TestSuggestLimit(t *testing.T) {
	s := newTestService(t, []knowledge.Item{
		{ID: "1", FAQ: "开户流程\n开户费用\n开户时间\n开户条件"},
	})
	if got := s.Suggest("开户", 2); len(got) != 2 {
		t.Errorf("Suggest() returned %d hints, want 2 (limited)", len(got))
	}
}

func TestSuggestEmptyInput(t *testing.T) {
	s := newTestService(t, []knowledge.Item{{ID: "1", FAQ: "开户流程"}})
	if got := s.Suggest("   ", 10); got != nil {
		t.Errorf("Suggest() on blank input = %v, want nil", got)
	}
}
