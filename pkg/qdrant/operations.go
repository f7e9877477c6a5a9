package qdrant

import (
	"context"
	"fmt"
	"strings"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/docuvec/docuvec/pkg/vectordb"
)

// Store implements vectordb.Store on top of a Qdrant client.
type Store struct {
	client *Client
}

var _ vectordb.Store = (*Store)(nil)

// NewStore wraps an initialized client into the vectordb abstraction.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// EnsureCollection checks if a collection exists, and creates it if
// missing. Safe to call multiple times. If the collection exists with a
// different vector size or distance metric it fails with
// ErrSchemaMismatch instead of silently accepting the divergence.
func (s *Store) EnsureCollection(ctx context.Context, name string, vectorSize uint64, distance vectordb.Distance) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	exists, err := s.client.api.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection %q: %w", name, err)
	}

	if exists {
		existing, err := s.GetCollection(ctx, name)
		if err != nil {
			return err
		}
		if existing.VectorSize != vectorSize || existing.Distance != distance {
			return fmt.Errorf("%w: collection %q has size=%d distance=%s, requested size=%d distance=%s",
				vectordb.ErrSchemaMismatch, name, existing.VectorSize, existing.Distance, vectorSize, distance)
		}
		s.client.logger.Debug("collection already exists", nil, map[string]interface{}{
			"collection": name,
		})
		return nil
	}

	s.client.logger.Info("creating collection", nil, map[string]interface{}{
		"collection":  name,
		"vector_size": vectorSize,
		"distance":    string(distance),
	})

	err = s.client.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: toQdrantDistance(distance),
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", name, err)
	}
	return nil
}

// Upsert writes entries with replace-by-id semantics. Empty batches
// return immediately without a network call. Every vector's
// dimensionality is validated against the collection's declared size
// before anything is written; batches larger than the configured batch
// size are split into sequential upserts with Wait=true.
func (s *Store) Upsert(ctx context.Context, collection string, entries []vectordb.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	info, err := s.GetCollection(ctx, collection)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if uint64(len(e.Vector)) != info.VectorSize {
			return fmt.Errorf("%w: entry %q has %d dimensions, collection %q expects %d",
				vectordb.ErrSchemaMismatch, e.ID, len(e.Vector), collection, info.VectorSize)
		}
	}

	batchSize := s.client.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := s.upsertBatch(ctx, collection, entries[start:end]); err != nil {
			return err
		}
		s.client.logger.Debug("upserted batch", nil, map[string]interface{}{
			"collection": collection,
			"from":       start,
			"to":         end,
		})
	}
	return nil
}

// upsertBatch sends a single Upsert request for a slice of entries,
// blocking until Qdrant acknowledges persistence (Wait=true).
func (s *Store) upsertBatch(ctx context.Context, collection string, batch []vectordb.Entry) error {
	points := make([]*qdrant.PointStruct, 0, len(batch))
	for _, e := range batch {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(e.ID),
			Vectors: qdrant.NewVectors(e.Vector...),
			Payload: qdrant.NewValueMap(e.Payload),
		})
	}

	wait := true
	_, err := s.client.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		ids := make([]string, 0, len(batch))
		for _, e := range batch {
			ids = append(ids, e.ID)
		}
		return fmt.Errorf("%w: collection %q, ids [%s]: %v",
			vectordb.ErrUpsertFailed, collection, strings.Join(ids, ", "), err)
	}
	return nil
}

// Search performs a similarity search in the given collection.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, topK int, scoreThreshold float32) ([]vectordb.SearchResult, error) {
	if err := validateSearchInput(collection, vector, topK); err != nil {
		return nil, err
	}

	limit := uint64(topK)
	req := &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if scoreThreshold > 0 {
		req.ScoreThreshold = &scoreThreshold
	}

	resp, err := s.client.api.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search in %q failed: %w", collection, err)
	}

	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.Id)
		if err != nil {
			return nil, err
		}
		results = append(results, vectordb.SearchResult{
			ID:      id,
			Score:   r.Score,
			Payload: convertPayload(r.Payload),
		})
	}
	return results, nil
}

// GetCollection retrieves schema and size information for a collection.
func (s *Store) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}

	exists, err := s.client.api.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %q: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", vectordb.ErrCollectionNotFound, name)
	}

	info, err := s.client.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %q: %w", name, err)
	}

	size, distance := extractVectorDetails(info)
	return &vectordb.Collection{
		Name:       name,
		Status:     info.Status.String(),
		VectorSize: size,
		Distance:   fromQdrantDistance(distance),
		PointCount: derefUint64(info.PointsCount),
	}, nil
}

// Count returns the number of stored entries in a collection.
func (s *Store) Count(ctx context.Context, name string) (uint64, error) {
	exact := true
	count, err := s.client.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count collection %q: %w", name, err)
	}
	return count, nil
}

// Delete removes entries from a collection by their IDs.
func (s *Store) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	qdrantIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qdrantIDs = append(qdrantIDs, qdrant.NewID(id))
	}

	wait := true
	_, err := s.client.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: qdrantIDs},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("delete from %q failed: %w", collection, err)
	}

	s.client.logger.Debug("deleted entries", nil, map[string]interface{}{
		"collection": collection,
		"count":      len(ids),
	})
	return nil
}
