// Package storage reads the document corpus from an S3-compatible
// object store via the MinIO client.
//
// The Loader lists a bucket prefix recursively and turns every readable
// text object into a document. Failures are split into two classes: a
// source that cannot be listed at all fails the load with
// ErrSourceUnavailable, while individual objects that cannot be read or
// decoded are skipped and reported per file so one bad object never
// aborts a whole ingestion run.
package storage
