package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotLoaded is returned when the canonical file has never been loaded and
// an operation requires existing content.
var ErrNotLoaded = errors.New("knowledge store not loaded")

// Store is the canonical, file-resident knowledge base. The file is a UTF-8
// JSON array of Item, regenerated wholesale on full sync and merged by id on
// incremental sync. Reads are safe for concurrent use; the sync engine is the
// sole writer. A failed load or save leaves the in-memory state at its
// last-known-good value.
type Store struct {
	path string

	mu     sync.RWMutex
	items  []Item
	index  map[string]int
	loaded bool
}

// NewStore creates a store backed by the JSON file at path. The file is not
// read until Load is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the canonical file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the canonical file into memory. A missing file is not an error:
// the store starts empty and awaits a sync. A malformed file is an error and
// the in-memory state is left untouched.
func (s *Store) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if !s.loaded {
				s.items = nil
				s.index = make(map[string]int)
				s.loaded = true
			}
			return nil
		}
		return fmt.Errorf("failed to read knowledge file %s: %w", s.path, err)
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to parse knowledge file %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(items)
	return nil
}

// ReplaceAll overwrites the store with items and persists the file. Used by
// full sync.
func (s *Store) ReplaceAll(items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFile(items); err != nil {
		return err
	}
	s.setLocked(items)
	return nil
}

// Merge applies changed items by id: an existing id is overwritten in place,
// an unknown id is appended. Deletions are never propagated. The file is
// rewritten only when the merge changes something. Returns counts of updated
// and added items.
func (s *Store) Merge(changed []Item) (updated, added int, err error) {
	if len(changed) == 0 {
		return 0, 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return 0, 0, ErrNotLoaded
	}

	merged := make([]Item, len(s.items))
	copy(merged, s.items)
	index := make(map[string]int, len(s.index))
	for id, i := range s.index {
		index[id] = i
	}

	for _, item := range changed {
		if item.ID == "" {
			continue
		}
		if i, ok := index[item.ID]; ok {
			merged[i] = item
			updated++
		} else {
			index[item.ID] = len(merged)
			merged = append(merged, item)
			added++
		}
	}

	if updated == 0 && added == 0 {
		return 0, 0, nil
	}
	if err := s.writeFile(merged); err != nil {
		return 0, 0, err
	}
	s.items = merged
	s.index = index
	return updated, added, nil
}

// Items returns a copy of every item, in file order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

// GetMany returns the items for the given ids, preserving the input order.
// Unknown ids are skipped; a store/index divergence is a normal condition.
func (s *Store) GetMany(ids []string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.index[id]; ok {
			items = append(items, s.items[i])
		}
	}
	return items
}

// Len returns the number of items currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// setLocked installs items and rebuilds the id index. Caller holds mu.
func (s *Store) setLocked(items []Item) {
	s.items = items
	s.index = make(map[string]int, len(items))
	for i, item := range items {
		s.index[item.ID] = i
	}
	s.loaded = true
}

// writeFile persists items atomically: write to a temp file in the same
// directory, then rename over the canonical path. Caller holds mu.
func (s *Store) writeFile(items []Item) error {
	if items == nil {
		items = []Item{}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".knowledge-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp knowledge file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode knowledge file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp knowledge file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace knowledge file %s: %w", s.path, err)
	}
	return nil
}
