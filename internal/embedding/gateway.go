package embedding

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"support-assistant/internal/contextutil"
)

const (
	// defaultBatchSize balances provider round trips against request size.
	defaultBatchSize = 50
	// maxInFlightBatches bounds concurrent provider calls.
	maxInFlightBatches = 4
	// maxAttempts per batch; only timeouts are retried.
	maxAttempts = 3
	// batchTimeout applies to a single provider call.
	batchTimeout = 5 * time.Second
	// retryWaitStep: attempt n waits (n+1)*retryWaitStep before retrying.
	retryWaitStep = 5 * time.Second
	// defaultCacheSize bounds the content-keyed embedding cache.
	defaultCacheSize = 4096
)

// Provider generates embeddings for a batch of texts.
type Provider interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Gateway wraps an embedding provider with content-keyed caching,
// within-call deduplication, bounded-concurrency batching, and retries.
// A batch that fails past its retry budget degrades to zero vectors so the
// pipeline keeps moving; callers must treat a zero vector as "no signal".
type Gateway struct {
	provider  Provider
	dimension int
	batchSize int
	cache     *lru.Cache[string, []float32]
	logger    *slog.Logger

	// sleep is swapped out in tests to avoid real retry waits.
	sleep func(time.Duration)
}

// NewGateway creates a gateway around provider producing vectors of the
// given dimensionality.
func NewGateway(provider Provider, dimension int) (*Gateway, error) {
	cache, err := lru.New[string, []float32](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		provider:  provider,
		dimension: dimension,
		batchSize: defaultBatchSize,
		cache:     cache,
		logger:    slog.Default(),
		sleep:     time.Sleep,
	}, nil
}

// Dimension returns the vector dimensionality the gateway produces.
func (g *Gateway) Dimension() int {
	return g.dimension
}

// Embed returns one vector per input text, order-preserving and
// length-preserving. Repeated texts, within a call or across calls, hit the
// cache instead of the provider. The only error returned is context
// cancellation; provider failures degrade to zero vectors.
func (g *Gateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	logger := contextutil.LoggerFromContext(ctx)

	result := make([][]float32, len(texts))
	if len(texts) == 0 {
		return result, nil
	}

	// Deduplicate: positions of each unique text not already cached.
	positions := make(map[string][]int)
	for i, text := range texts {
		if vec, ok := g.cache.Get(text); ok {
			result[i] = vec
			continue
		}
		positions[text] = append(positions[text], i)
	}
	if len(positions) == 0 {
		return result, nil
	}

	unique := make([]string, 0, len(positions))
	for text := range positions {
		unique = append(unique, text)
	}

	logger.DebugContext(ctx, "embedding texts",
		"total", len(texts), "unique_misses", len(unique))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, maxInFlightBatches)
	)
	vectors := make(map[string][]float32, len(unique))

	for start := 0; start < len(unique); start += g.batchSize {
		end := start + g.batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch := unique[start:end]

		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			embedded := g.embedBatch(ctx, batch)
			mu.Lock()
			for i, text := range batch {
				vectors[text] = embedded[i]
			}
			mu.Unlock()
		}(batch)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for text, idxs := range positions {
		vec, ok := vectors[text]
		if !ok || vec == nil {
			vec = ZeroVector(g.dimension)
		}
		g.cache.Add(text, vec)
		for _, i := range idxs {
			result[i] = vec
		}
	}
	return result, nil
}

// embedBatch calls the provider with bounded attempts. Only timeouts are
// retried; any other failure, or retry exhaustion, yields zero vectors for
// the whole batch.
func (g *Gateway) embedBatch(ctx context.Context, batch []string) [][]float32 {
	logger := contextutil.LoggerFromContext(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, batchTimeout)
		vectors, err := g.provider.CreateEmbeddings(callCtx, batch)
		cancel()
		if err == nil {
			if len(vectors) == len(batch) {
				return vectors
			}
			logger.WarnContext(ctx, "provider returned wrong embedding count",
				"want", len(batch), "got", len(vectors))
			break
		}

		if ctx.Err() != nil {
			break
		}
		if !isTimeout(err) {
			logger.WarnContext(ctx, "embedding batch failed",
				"size", len(batch), "error", err)
			break
		}
		if attempt < maxAttempts-1 {
			wait := time.Duration(attempt+1) * retryWaitStep
			logger.WarnContext(ctx, "embedding batch timed out, retrying",
				"attempt", attempt+1, "wait", wait)
			g.sleep(wait)
		} else {
			logger.WarnContext(ctx, "embedding batch timed out, out of retries",
				"size", len(batch))
		}
	}

	zeros := make([][]float32, len(batch))
	for i := range zeros {
		zeros[i] = ZeroVector(g.dimension)
	}
	return zeros
}

// ZeroVector returns the all-zero vector of the given dimensionality, the
// deterministic "no signal" fallback.
func ZeroVector(dimension int) []float32 {
	return make([]float32, dimension)
}

// IsZero reports whether vec carries no signal (nil or all zeros).
func IsZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
