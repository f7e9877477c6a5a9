package qdrant

import (
	"os"
	"strconv"
)

// Config holds connection settings for the Qdrant client.
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" envconfig:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" envconfig:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" envconfig:"QDRANT_API_KEY"`

	// Whether to connect over TLS.
	UseTLS bool `yaml:"use_tls" envconfig:"QDRANT_USE_TLS"`

	// Maximum number of entries per upsert request; larger batches are
	// split before hitting the wire.
	BatchSize int `yaml:"batch_size" envconfig:"QDRANT_BATCH_SIZE"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" envconfig:"QDRANT_CHECK_COMPATIBILITY"`
}

const defaultBatchSize = 64

// NewConfig reads the Qdrant configuration from the environment.
func NewConfig() *Config {
	port := 6334
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}
	batch := defaultBatchSize
	if v := os.Getenv("QDRANT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			batch = n
		}
	}
	return &Config{
		Endpoint:           getenvDefault("QDRANT_ENDPOINT", "localhost"),
		Port:               port,
		ApiKey:             os.Getenv("QDRANT_API_KEY"),
		UseTLS:             os.Getenv("QDRANT_USE_TLS") == "true",
		BatchSize:          batch,
		CheckCompatibility: false,
	}
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
