package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/docuvec/docuvec/pkg/vectordb"
)

// Config validation errors.
var (
	ErrInvalidChunking    = errors.New("chunk overlap must be smaller than chunk size and both must be positive")
	ErrInvalidVectorSize  = errors.New("vector size must be positive")
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
	ErrInvalidTopK        = errors.New("top-k must be positive")
)

// Config holds the pipeline-level settings shared between the ingestion
// job and the query service. Per-backend connection settings live in
// their own packages; this struct only carries the knobs that shape the
// pipeline itself.
type Config struct {
	// Collection is the name of the vector collection the pipeline
	// writes to and the query engine reads from.
	Collection string `yaml:"collection" envconfig:"COLLECTION_NAME"`

	// VectorSize is the embedding dimensionality the collection is
	// created with.
	VectorSize uint64 `yaml:"vector_size" envconfig:"VECTOR_SIZE"`

	// Distance is the similarity metric fixed at collection creation.
	Distance vectordb.Distance `yaml:"distance" envconfig:"DISTANCE"`

	// ChunkSize is the maximum chunk length in runes.
	ChunkSize int `yaml:"chunk_size" envconfig:"CHUNK_SIZE"`

	// ChunkOverlap is the shared context between adjacent chunks, in runes.
	ChunkOverlap int `yaml:"chunk_overlap" envconfig:"CHUNK_OVERLAP"`

	// Concurrency bounds how many embedding batches are in flight at once.
	Concurrency int `yaml:"concurrency" envconfig:"INGEST_CONCURRENCY"`

	// MaxRetries bounds retry attempts for retryable embedding failures.
	MaxRetries int `yaml:"max_retries" envconfig:"INGEST_MAX_RETRIES"`

	// TopK is the number of nearest entries retrieved per query.
	TopK int `yaml:"top_k" envconfig:"QUERY_TOP_K"`

	// ScoreThreshold drops matches scoring below it. Zero disables it.
	ScoreThreshold float32 `yaml:"score_threshold" envconfig:"QUERY_SCORE_THRESHOLD"`

	// QueryTimeout caps a single end-to-end query, embedding and
	// synthesis included.
	QueryTimeout time.Duration `yaml:"query_timeout" envconfig:"QUERY_TIMEOUT"`
}

const (
	defaultCollection   = "documents"
	defaultVectorSize   = 1536
	defaultChunkSize    = 1500
	defaultChunkOverlap = 200
	defaultConcurrency  = 4
	defaultMaxRetries   = 3
	defaultTopK         = 5
	defaultQueryTimeout = 30 * time.Second
)

// NewConfig reads the pipeline configuration from the environment,
// falling back to defaults for anything unset.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Collection:     getenvDefault("COLLECTION_NAME", defaultCollection),
		VectorSize:     uint64(getenvInt("VECTOR_SIZE", defaultVectorSize)),
		Distance:       vectordb.ParseDistance(os.Getenv("DISTANCE")),
		ChunkSize:      getenvInt("CHUNK_SIZE", defaultChunkSize),
		ChunkOverlap:   getenvInt("CHUNK_OVERLAP", defaultChunkOverlap),
		Concurrency:    getenvInt("INGEST_CONCURRENCY", defaultConcurrency),
		MaxRetries:     getenvInt("INGEST_MAX_RETRIES", defaultMaxRetries),
		TopK:           getenvInt("QUERY_TOP_K", defaultTopK),
		ScoreThreshold: getenvFloat("QUERY_SCORE_THRESHOLD", 0),
		QueryTimeout:   getenvDuration("QUERY_TIMEOUT", defaultQueryTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return ErrInvalidChunking
	}
	if c.VectorSize == 0 {
		return ErrInvalidVectorSize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.TopK <= 0 {
		return ErrInvalidTopK
	}
	return nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(k string, def float32) float32 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
