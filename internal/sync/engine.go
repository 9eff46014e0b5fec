package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"support-assistant/internal/content"
	"support-assistant/internal/contextutil"
	"support-assistant/internal/embedding"
	"support-assistant/internal/hints"
	"support-assistant/internal/knowledge"
	"support-assistant/internal/vectorstore"
)

// upsertBatchSize bounds how many records go to the vector index per call.
const upsertBatchSize = 100

// ErrSyncInProgress is returned when a sync is requested while another one
// is still running. Syncs never queue; the caller retries later.
var ErrSyncInProgress = errors.New("sync already in progress")

// Source fetches knowledge entries from the CMS.
type Source interface {
	FetchAll(ctx context.Context) ([]content.Entry, error)
	FetchUpdatedSince(ctx context.Context, since time.Time) ([]content.Entry, error)
}

// Embedder produces one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Result summarizes what a sync run did.
type Result struct {
	Fetched int `json:"fetched"`
	Updated int `json:"updated"`
	Added   int `json:"added"`
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
}

// Engine keeps the local knowledge file, the vector index, and the search
// hints in step with the CMS. Full sync rebuilds everything from scratch;
// incremental sync merges recent edits without touching untouched records.
// At most one sync runs at a time.
type Engine struct {
	source   Source
	store    *knowledge.Store
	hints    *hints.Service
	embedder Embedder
	index    vectorstore.VectorIndex

	rawPath     string
	stagingPath string
	window      time.Duration

	running sync.Mutex
	now     func() time.Time
}

// NewEngine creates a sync engine. rawPath is where the unparsed CMS
// snapshot is kept; window is how far back incremental sync looks.
func NewEngine(source Source, store *knowledge.Store, hintSvc *hints.Service, embedder Embedder, index vectorstore.VectorIndex, rawPath string, window time.Duration) *Engine {
	return &Engine{
		source:      source,
		store:       store,
		hints:       hintSvc,
		embedder:    embedder,
		index:       index,
		rawPath:     rawPath,
		stagingPath: filepath.Join(filepath.Dir(rawPath), "strapi_knowledge_incremental.json"),
		window:      window,
		now:         time.Now,
	}
}

// FullSync refetches the entire knowledge base, rewrites the local files,
// rebuilds the vector collection, and regenerates search hints.
func (e *Engine) FullSync(ctx context.Context) (Result, error) {
	if !e.running.TryLock() {
		return Result{}, ErrSyncInProgress
	}
	defer e.running.Unlock()

	logger := contextutil.LoggerFromContext(ctx)
	start := e.now()

	entries, err := e.source.FetchAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch knowledge: %w", err)
	}
	result := Result{Fetched: len(entries)}
	logger.InfoContext(ctx, "fetched knowledge base", "entries", len(entries))

	// The raw snapshot exists so parser changes can be replayed offline;
	// losing it does not block the sync.
	if err := writeJSON(e.rawPath, content.Document{Data: entries}); err != nil {
		logger.WarnContext(ctx, "failed to write raw snapshot", "path", e.rawPath, "error", err)
	}

	items := content.ParseEntries(entries)
	if err := e.store.ReplaceAll(items); err != nil {
		return result, fmt.Errorf("failed to replace knowledge store: %w", err)
	}

	records, skipped, err := e.buildRecords(ctx, items)
	if err != nil {
		return result, err
	}
	result.Skipped = skipped

	if err := e.index.Recreate(ctx); err != nil {
		return result, fmt.Errorf("failed to recreate vector collection: %w", err)
	}
	indexed, err := e.upsertBatches(ctx, records)
	result.Indexed = indexed
	if err != nil {
		return result, err
	}

	if err := e.hints.Generate(items); err != nil {
		return result, fmt.Errorf("failed to regenerate search hints: %w", err)
	}

	logger.InfoContext(ctx, "full sync completed",
		"fetched", result.Fetched, "indexed", result.Indexed,
		"skipped", result.Skipped, "duration", e.now().Sub(start))
	return result, nil
}

// IncrementalSync fetches entries updated within the lookback window and
// merges them into the store and the vector index. Records absent from the
// fetch are left alone; deletions on the CMS never propagate here.
func (e *Engine) IncrementalSync(ctx context.Context) (Result, error) {
	if !e.running.TryLock() {
		return Result{}, ErrSyncInProgress
	}
	defer e.running.Unlock()

	logger := contextutil.LoggerFromContext(ctx)
	since := e.now().Add(-e.window)

	entries, err := e.source.FetchUpdatedSince(ctx, since)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch updated knowledge: %w", err)
	}
	result := Result{Fetched: len(entries)}
	if len(entries) == 0 {
		logger.InfoContext(ctx, "incremental sync found no changes", "since", since)
		return result, nil
	}

	// Stage the fetch on disk for the duration of the merge, then clean up
	// whichever way the merge goes.
	if err := writeJSON(e.stagingPath, content.Document{Data: entries}); err != nil {
		logger.WarnContext(ctx, "failed to write staging file", "path", e.stagingPath, "error", err)
	}
	defer func() {
		if err := os.Remove(e.stagingPath); err != nil && !os.IsNotExist(err) {
			logger.WarnContext(ctx, "failed to remove staging file", "path", e.stagingPath, "error", err)
		}
	}()

	items := content.ParseEntries(entries)
	updated, added, err := e.store.Merge(items)
	if err != nil {
		return result, fmt.Errorf("failed to merge knowledge store: %w", err)
	}
	result.Updated = updated
	result.Added = added

	var indexErr error
	records, skipped, err := e.buildRecords(ctx, items)
	result.Skipped = skipped
	if err != nil {
		indexErr = err
	} else {
		indexed, upsertErr := e.upsertBatches(ctx, records)
		result.Indexed = indexed
		indexErr = upsertErr
	}
	if indexErr != nil {
		logger.ErrorContext(ctx, "incremental index update failed", "error", indexErr)
	}

	// Hints derive from the store, and the merge succeeded, so an index
	// failure does not block regeneration.
	if err := e.hints.Generate(e.store.Items()); err != nil {
		return result, errors.Join(indexErr, fmt.Errorf("failed to regenerate search hints: %w", err))
	}
	if indexErr != nil {
		return result, indexErr
	}

	logger.InfoContext(ctx, "incremental sync completed",
		"since", since, "fetched", result.Fetched, "updated", result.Updated,
		"added", result.Added, "indexed", result.Indexed, "skipped", result.Skipped)
	return result, nil
}

// buildRecords embeds the items' normalized questions and pairs them with
// vector records. Items whose questions normalize away entirely, or whose
// embedding degraded to a zero vector, are skipped rather than indexed as
// noise.
func (e *Engine) buildRecords(ctx context.Context, items []knowledge.Item) ([]vectorstore.Record, int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	type pending struct {
		item knowledge.Item
		doc  string
	}
	pendings := make([]pending, 0, len(items))
	skipped := 0
	for _, item := range items {
		doc := knowledge.EmbeddingDocument(item.FAQ)
		if doc == "" {
			skipped++
			continue
		}
		pendings = append(pendings, pending{item: item, doc: doc})
	}

	texts := make([]string, len(pendings))
	for i, p := range pendings {
		texts[i] = p.doc
	}
	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, skipped, fmt.Errorf("failed to embed knowledge: %w", err)
	}

	records := make([]vectorstore.Record, 0, len(pendings))
	for i, p := range pendings {
		if embedding.IsZero(vectors[i]) {
			logger.WarnContext(ctx, "skipping item with degraded embedding", "id", p.item.ID)
			skipped++
			continue
		}
		records = append(records, vectorstore.Record{
			ID:       "faq_" + p.item.ID,
			Vector:   vectors[i],
			Document: p.doc,
			Meta: map[string]any{
				"id":       p.item.ID,
				"faq":      p.item.FAQ,
				"keywords": p.item.Keywords,
				"response": p.item.Response,
			},
		})
	}
	return records, skipped, nil
}

// upsertBatches writes records to the index in fixed-size batches and
// returns how many made it in before any failure.
func (e *Engine) upsertBatches(ctx context.Context, records []vectorstore.Record) (int, error) {
	indexed := 0
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := e.index.Upsert(ctx, records[start:end]); err != nil {
			return indexed, fmt.Errorf("failed to upsert batch at %d: %w", start, err)
		}
		indexed += end - start
	}
	return indexed, nil
}

func writeJSON(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sync-*.json")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
