package pipeline

import "errors"

// Query path error types. The HTTP facade maps these onto status codes,
// so they stay backend-agnostic.
var (
	// ErrNotInitialized is returned when the query engine is not bound
	// to a collection. The check is local and fast; no backend call is
	// attempted.
	ErrNotInitialized = errors.New("query engine not bound to a collection")

	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrRetrievalUnavailable is returned when the question could not be
	// embedded or the index could not be searched. The request as a
	// whole is the retry unit; nothing is retried internally.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrTimeout is returned when a query exceeds its configured
	// end-to-end deadline.
	ErrTimeout = errors.New("query deadline exceeded")
)
