package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio wraps the MinIO client for reading a document corpus from an
// S3-compatible bucket. It implements ObjectStore.
type Minio struct {
	// Client is the underlying MinIO client.
	Client *minio.Client

	cfg    Config
	logger Logger

	// bufferPool manages reusable byte buffers for large object reads.
	bufferPool *BufferPool
}

var _ ObjectStore = (*Minio)(nil)

// BufferPool implements a pool of bytes.Buffers to reduce memory
// allocations when reading objects.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a new BufferPool.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// Get returns a buffer from the pool.
func (bp *BufferPool) Get() *bytes.Buffer {
	return bp.pool.Get().(*bytes.Buffer)
}

// Put returns a buffer to the pool for future reuse.
func (bp *BufferPool) Put(b *bytes.Buffer) {
	bp.pool.Put(b)
}

// NewClient creates and validates a new storage client. It verifies the
// connection and that the configured bucket exists; a bucket that
// cannot be reached or does not exist makes every later load attempt
// fail, so this fails fast instead.
func NewClient(cfg Config, logger Logger) (*Minio, error) {
	client, err := connect(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to object storage", err, map[string]interface{}{
			"endpoint": cfg.Connection.Endpoint,
			"bucket":   cfg.Connection.BucketName,
		})
		return nil, err
	}

	m := &Minio{
		Client:     client,
		cfg:        cfg,
		logger:     logger,
		bufferPool: NewBufferPool(),
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.validateBucket(timeoutCtx); err != nil {
		logger.Error("failed to validate bucket", err, map[string]interface{}{
			"endpoint": cfg.Connection.Endpoint,
			"bucket":   cfg.Connection.BucketName,
		})
		return nil, err
	}

	return m, nil
}

// connect creates the underlying MinIO client.
func connect(cfg Config, logger Logger) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint cannot be empty")
	}

	logger.Info("connecting to object storage", nil, map[string]interface{}{
		"endpoint": cfg.Connection.Endpoint,
		"region":   cfg.Connection.Region,
		"secure":   cfg.Connection.UseSSL,
	})

	return minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
}

// validateBucket checks that the configured bucket is reachable and
// exists. The loader never creates buckets; a missing source bucket is
// a configuration error.
func (m *Minio) validateBucket(ctx context.Context) error {
	bucketName := m.cfg.Connection.BucketName
	if bucketName == "" {
		return fmt.Errorf("%w: bucket name is empty", ErrSourceUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := m.Client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("%w: failed to check bucket %q: %v", ErrSourceUnavailable, bucketName, err)
	}
	if !exists {
		return fmt.Errorf("%w: bucket %q does not exist", ErrSourceUnavailable, bucketName)
	}
	return nil
}

// List returns every object under the given key prefix, recursively.
func (m *Minio) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	for object := range m.Client.ListObjects(ctx, m.cfg.Connection.BucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("listing %q under prefix %q: %w", m.cfg.Connection.BucketName, prefix, object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:  object.Key,
			Size: object.Size,
		})
	}
	return objects, nil
}

// Get retrieves an object's full contents, using the buffer pool for
// larger objects.
func (m *Minio) Get(ctx context.Context, key string) ([]byte, error) {
	reader, err := m.Client.GetObject(ctx, m.cfg.Connection.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %q: %w", key, err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.logger.Error("failed to close object reader", err, map[string]interface{}{"key": key})
		}
	}()

	buffer := m.bufferPool.Get()
	buffer.Reset()
	defer m.bufferPool.Put(buffer)

	if _, err := io.Copy(buffer, reader); err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}

	// Copy out so buffer reuse cannot mutate the returned slice.
	data := make([]byte, buffer.Len())
	copy(data, buffer.Bytes())
	return data, nil
}
