// Package embedding converts text into fixed-dimension vectors through
// an OpenAI-compatible embeddings API.
//
// The Provider interface keeps the pipeline independent of the concrete
// backend; failures are classified as ErrRateLimited (throttled,
// retryable) or ErrEmbeddingUnavailable so that callers can apply their
// own retry policy.
package embedding
