// Package config carries the pipeline-level settings shared between the
// ingestion job and the query service: collection identity, chunking
// geometry, embedding concurrency and query behavior. Connection
// settings for individual backends live in their respective packages.
package config
