package vectordb

import "errors"

// Common vector index error types that can be used by consumers of this
// package. These abstract away backend-specific error details.
var (
	// ErrSchemaMismatch is returned when an existing collection's vector
	// size or distance metric differs from what the caller requires, or
	// when an entry's vector dimensionality differs from the collection's
	// declared size. Writes must fail rather than silently corrupt the
	// index.
	ErrSchemaMismatch = errors.New("collection schema mismatch")

	// ErrUpsertFailed is returned when a batch write was not acknowledged.
	// The batch is retryable as a whole.
	ErrUpsertFailed = errors.New("upsert failed")

	// ErrCollectionNotFound is returned when the named collection does
	// not exist.
	ErrCollectionNotFound = errors.New("collection not found")
)
