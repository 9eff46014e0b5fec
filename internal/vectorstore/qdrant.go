package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"support-assistant/internal/contextutil"
)

// QdrantIndex implements VectorIndex using Qdrant with cosine distance.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
	vectorSize int
}

// NewQdrantIndex creates a Qdrant-backed index over the named collection.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333");
// the gRPC port is derived from the HTTP port.
func NewQdrantIndex(urlStr, collection string, vectorSize int) (*QdrantIndex, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	// gRPC port is typically the HTTP port + 1.
	port := 6334
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantIndex{
		client:     client,
		collection: collection,
		vectorSize: vectorSize,
	}, nil
}

// pointID maps a logical record ID onto a Qdrant point ID. Qdrant only
// accepts UUID or integer IDs, so the record ID is hashed to a deterministic
// UUID; upserting the same record ID always addresses the same point.
func pointID(recordID string) *qdrant.PointId {
	return qdrant.NewID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(recordID)).String())
}

// Upsert inserts or updates records in the collection, last write wins per
// record ID.
func (s *QdrantIndex) Upsert(ctx context.Context, records []Record) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, record := range records {
		meta := make(map[string]any, len(record.Meta)+2)
		for k, v := range record.Meta {
			meta[k] = v
		}
		meta["record_id"] = record.ID
		meta["document"] = record.Document

		points = append(points, &qdrant.PointStruct{
			Id:      pointID(record.ID),
			Vectors: qdrant.NewVectors(record.Vector...),
			Payload: qdrant.NewValueMap(meta),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert records", "collection", s.collection, "count", len(records), "error", err)
		return fmt.Errorf("failed to upsert records: %w", err)
	}

	logger.InfoContext(ctx, "upserted records", "collection", s.collection, "count", len(records))
	return nil
}

// Query returns the k nearest candidates for the embedding. Qdrant reports
// cosine similarity (larger = closer); it is converted here to a distance
// with smaller = more similar so callers never depend on the index's native
// score direction.
func (s *QdrantIndex) Query(ctx context.Context, embedding []float32, k int) ([]Candidate, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	limit := uint64(k)
	scoredPoints, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to query collection", "collection", s.collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	candidates := make([]Candidate, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		candidates = append(candidates, candidateFromPayload(point.Payload, 1-point.Score))
	}

	logger.DebugContext(ctx, "query completed", "collection", s.collection, "k", k, "results", len(candidates))
	return candidates, nil
}

// Recreate drops the collection if present and creates it fresh. Used by
// full sync before re-upserting the whole corpus.
func (s *QdrantIndex) Recreate(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}
	}

	if err := s.createCollection(ctx); err != nil {
		return err
	}
	logger.InfoContext(ctx, "collection recreated", "collection", s.collection, "vector_size", s.vectorSize)
	return nil
}

// Count returns the number of records in the collection.
func (s *QdrantIndex) Count(ctx context.Context) (int, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count collection: %w", err)
	}
	return int(count), nil
}

// Peek returns up to n records without scoring, for inspection endpoints.
func (s *QdrantIndex) Peek(ctx context.Context, n int) ([]Candidate, error) {
	if n <= 0 {
		return nil, nil
	}
	limit := uint32(n)
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to peek collection: %w", err)
	}

	candidates := make([]Candidate, 0, len(points))
	for _, point := range points {
		candidates = append(candidates, candidateFromPayload(point.Payload, 0))
	}
	return candidates, nil
}

// EnsureCollection creates the collection if it does not exist and validates
// the vector size when it does. Called once at startup.
func (s *QdrantIndex) EnsureCollection(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		if err := s.createCollection(ctx); err != nil {
			return err
		}
		logger.InfoContext(ctx, "collection created", "collection", s.collection, "vector_size", s.vectorSize)
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}
	config := info.Config
	if config == nil || config.Params == nil {
		return fmt.Errorf("collection config is invalid")
	}
	vectorsConfig := config.Params.GetVectorsConfig()
	if vectorsConfig == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}
	params := vectorsConfig.GetParams()
	if params == nil {
		return fmt.Errorf("collection vector params are invalid")
	}
	if int(params.Size) != s.vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", s.vectorSize, params.Size)
	}

	logger.InfoContext(ctx, "collection validated", "collection", s.collection, "vector_size", s.vectorSize)
	return nil
}

func (s *QdrantIndex) createCollection(ctx context.Context) error {
	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func candidateFromPayload(payload map[string]*qdrant.Value, distance float32) Candidate {
	if distance < 0 {
		distance = 0
	}
	meta := convertPayloadToMap(payload)

	candidate := Candidate{Distance: distance, Meta: meta}
	if recordID, ok := meta["record_id"].(string); ok {
		candidate.RecordID = recordID
		delete(meta, "record_id")
	}
	if document, ok := meta["document"].(string); ok {
		candidate.Document = document
		delete(meta, "document")
	}
	return candidate
}

// convertPayloadToMap converts a Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to a Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
