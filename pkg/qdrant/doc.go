// Package qdrant implements the vectordb.Store abstraction on top of
// the official Qdrant Go client.
//
// Core behavior:
//
//   - Managed client lifecycle with Fx integration and a startup
//     health check that fails fast when the service is unreachable.
//   - Idempotent collection creation that validates the schema of an
//     existing collection instead of silently accepting size or
//     distance divergence.
//   - Batched, dimension-checked upserts with Wait=true so data is
//     persisted before the call returns.
//   - Similarity search with payload conversion to native Go maps and
//     an optional relevance-score threshold.
//
// Configuration comes from QDRANT_* environment variables; see Config.
package qdrant
