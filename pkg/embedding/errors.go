package embedding

import "errors"

// Common embedding error types exposed to consumers of this package.
// Retry policy belongs to the caller (the ingest driver retries with
// backoff, the query path does not retry at all), so the provider only
// classifies failures.
var (
	// ErrEmbeddingUnavailable is returned when the embedding capability
	// cannot be reached or rejects the request (network, auth, 5xx).
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited is returned when the provider throttles the caller.
	// It is always retryable with backoff.
	ErrRateLimited = errors.New("embedding service rate limited")
)

// IsRetryable reports whether err is worth retrying with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrEmbeddingUnavailable)
}
