// Package pipeline contains the two flows of the system.
//
// The Ingestor drives one ingestion pass: load documents from object
// storage, chunk them into overlapping nodes, embed the nodes with
// bounded parallelism and upsert the resulting entries into the vector
// index. Individual documents that fail are recorded and skipped; the
// run's outcome is an aggregate Report.
//
// The QueryEngine answers a question end to end: embed it, retrieve
// the nearest chunks, synthesize an answer constrained to them. Each
// request runs under a deadline and is the retry unit as a whole.
package pipeline
