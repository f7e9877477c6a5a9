package storage

import "os"

// Config defines the top-level configuration for the object storage client.
type Config struct {
	Connection ConnectionConfig // Connection details for the S3-compatible server
	Loader     LoaderConfig     // Document loader behavior
}

// ConnectionConfig contains server connection details.
type ConnectionConfig struct {
	Endpoint        string // S3-compatible endpoint, e.g. "s3.amazonaws.com" or "localhost:9000"
	AccessKeyID     string // Access key
	SecretAccessKey string // Secret key
	UseSSL          bool   // Use SSL (true for "https", false for "http")
	BucketName      string // Bucket holding the document corpus
	Region          string // Region for the bucket (e.g. "eu-central-1")
}

// LoaderConfig defines how the document loader walks the bucket.
type LoaderConfig struct {
	// Prefix is the subtree of the bucket that holds documents.
	Prefix string

	// MaxObjectSize caps how large a single document may be, in bytes.
	// Larger objects are skipped and recorded as per-file failures.
	MaxObjectSize int64
}

const defaultMaxObjectSize = 16 * 1024 * 1024

// NewConfig reads the storage configuration from the environment.
func NewConfig() Config {
	return Config{
		Connection: ConnectionConfig{
			Endpoint:        getenvDefault("STORAGE_ENDPOINT", "s3.amazonaws.com"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			UseSSL:          os.Getenv("STORAGE_USE_SSL") != "false",
			BucketName:      os.Getenv("DOCUMENT_BUCKET"),
			Region:          getenvDefault("AWS_REGION", "eu-central-1"),
		},
		Loader: LoaderConfig{
			Prefix:        getenvDefault("STORAGE_PREFIX", "documents/"),
			MaxObjectSize: defaultMaxObjectSize,
		},
	}
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
