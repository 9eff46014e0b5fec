package vectorstore

import "context"

// Record is one vector record keyed by a logical record ID ("faq_<item id>").
type Record struct {
	ID       string
	Vector   []float32
	Document string
	Meta     map[string]any
}

// Candidate is one nearest-neighbor result. Distance is normalized at the
// index boundary so that smaller always means more similar, with 0 a perfect
// match; callers must not assume any particular upper bound.
type Candidate struct {
	RecordID string
	Document string
	Distance float32
	Meta     map[string]any
}

// VectorIndex defines the operations on the single named similarity
// collection. Upsert is idempotent per record ID (last write wins); Recreate
// drops and recreates the collection for full rebuilds.
type VectorIndex interface {
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, embedding []float32, k int) ([]Candidate, error)
	Recreate(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Peek(ctx context.Context, n int) ([]Candidate, error)
}
