package storage

import "context"

// Logger defines the interface for logging operations within the
// storage client. This interface allows for dependency injection of any
// compatible logger implementation.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// ObjectInfo describes a single listed object.
type ObjectInfo struct {
	// Key is the full object key within the bucket.
	Key string

	// Size is the object size in bytes.
	Size int64
}

// ObjectStore is the minimal read surface the document loader needs
// from a hierarchical object store. The Minio client implements it;
// tests substitute an in-memory fake.
type ObjectStore interface {
	// List returns every object under the given key prefix, recursively.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Get retrieves an object's full contents.
	Get(ctx context.Context, key string) ([]byte, error)
}
