package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "strapi_knowledge_parsed.json"))
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := testStore(t)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() on missing file should not error, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStoreLoadMalformedFileKeepsState(t *testing.T) {
	s := testStore(t)
	if err := s.ReplaceAll([]Item{{ID: "1", FAQ: "怎么开户", Response: "打开App点击注册"}}); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(); err == nil {
		t.Fatal("Load() on malformed file should error")
	}

	// In-memory state stays at last-known-good.
	if _, ok := s.Get("1"); !ok {
		t.Error("item lost after failed reload")
	}
}

func TestStoreReplaceAllPersists(t *testing.T) {
	s := testStore(t)
	items := []Item{
		{ID: "7", FAQ: "怎么开户\n如何注册", Keywords: "开户 注册", Response: "打开App点击注册"},
		{ID: "8", FAQ: "如何充值", Keywords: "充值", Response: "进入钱包页面"},
	}
	if err := s.ReplaceAll(items); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	reloaded := NewStore(s.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reloaded.Len())
	}
	item, ok := reloaded.Get("7")
	if !ok || item.Keywords != "开户 注册" {
		t.Errorf("Get(7) = %+v, ok=%v", item, ok)
	}
}

func TestStoreMerge(t *testing.T) {
	s := testStore(t)
	if err := s.ReplaceAll([]Item{
		{ID: "1", FAQ: "怎么开户", Response: "旧回答"},
		{ID: "2", FAQ: "如何充值", Response: "进入钱包页面"},
	}); err != nil {
		t.Fatal(err)
	}

	updated, added, err := s.Merge([]Item{
		{ID: "1", FAQ: "怎么开户", Response: "新回答"},
		{ID: "3", FAQ: "如何提现", Response: "进入提现页面"},
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if updated != 1 || added != 1 {
		t.Errorf("Merge() = (%d updated, %d added), want (1, 1)", updated, added)
	}

	item, _ := s.Get("1")
	if item.Response != "新回答" {
		t.Errorf("updated item Response = %q", item.Response)
	}
	if _, ok := s.Get("3"); !ok {
		t.Error("appended item missing")
	}
	// Existing untouched items survive a merge.
	if _, ok := s.Get("2"); !ok {
		t.Error("untouched item missing after merge")
	}

	// File order: updates in place, appends at the end.
	items := s.Items()
	if len(items) != 3 || items[0].ID != "1" || items[2].ID != "3" {
		t.Errorf("unexpected item order: %+v", items)
	}
}

func TestStoreMergeNoChangesLeavesFileUntouched(t *testing.T) {
	s := testStore(t)
	if err := s.ReplaceAll([]Item{{ID: "1", FAQ: "怎么开户"}}); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	beforeInfo, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := s.Merge(nil); err != nil {
		t.Fatalf("Merge(nil) error = %v", err)
	}

	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("file content changed on empty merge")
	}
	afterInfo, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !afterInfo.ModTime().Equal(beforeInfo.ModTime()) {
		t.Error("file rewritten on empty merge")
	}
}

func TestStoreMergeRequiresLoad(t *testing.T) {
	s := testStore(t)
	if _, _, err := s.Merge([]Item{{ID: "1"}}); err != ErrNotLoaded {
		t.Errorf("Merge() before Load error = %v, want ErrNotLoaded", err)
	}
}

func TestStoreGetMany(t *testing.T) {
	s := testStore(t)
	if err := s.ReplaceAll([]Item{
		{ID: "1", FAQ: "a"},
		{ID: "2", FAQ: "b"},
		{ID: "3", FAQ: "c"},
	}); err != nil {
		t.Fatal(err)
	}

	items := s.GetMany([]string{"3", "missing", "1"})
	if len(items) != 2 || items[0].ID != "3" || items[1].ID != "1" {
		t.Errorf("GetMany() = %+v, want ids [3 1] in order", items)
	}
}
