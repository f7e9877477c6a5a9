package vectordb

import "context"

// Store is the common interface for vector index backends.
// It provides a database-agnostic abstraction so the pipeline's
// correctness logic stays independent of which concrete index backs it.
type Store interface {
	// EnsureCollection creates a collection if it doesn't exist.
	// Safe to call multiple times. If the collection already exists
	// with a different vector size or distance metric, it fails with
	// ErrSchemaMismatch instead of silently accepting the divergence.
	EnsureCollection(ctx context.Context, name string, vectorSize uint64, distance Distance) error

	// Upsert writes entries with replace-by-id semantics: re-upserting
	// an id fully replaces its prior vector and payload. An empty batch
	// is a no-op returning success. Vectors whose dimensionality differs
	// from the collection's declared size fail the whole batch with
	// ErrSchemaMismatch before anything is written.
	Upsert(ctx context.Context, collection string, entries []Entry) error

	// Search returns the topK nearest entries to the query vector,
	// ordered by similarity. Results below scoreThreshold are dropped;
	// a zero threshold keeps everything.
	Search(ctx context.Context, collection string, vector []float32, topK int, scoreThreshold float32) ([]SearchResult, error)

	// GetCollection retrieves metadata about a collection, or
	// ErrCollectionNotFound.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// Count returns the number of stored entries in a collection.
	Count(ctx context.Context, name string) (uint64, error)

	// Delete removes entries by their IDs from a collection.
	Delete(ctx context.Context, collection string, ids []string) error
}
