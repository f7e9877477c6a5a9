package embedding

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Base URL of an OpenAI-compatible API, e.g. "https://api.openai.com/v1".
	Endpoint string

	// Model identity sent with every request.
	Model string

	// API credential, sent as a bearer token.
	APIKey string

	// Fixed dimensionality of the configured model's vectors.
	Dimensions int

	// HTTP timeout in seconds (default 30).
	HTTPTimeoutS int
}

// NewConfig reads from environment (no extra deps).
func NewConfig() *Config {
	timeout := 30
	if v := os.Getenv("EMBEDDING_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}
	dimensions := 1536
	if v := os.Getenv("EMBEDDING_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dimensions = n
		}
	}
	return &Config{
		Endpoint:     getenvDefault("EMBEDDING_ENDPOINT", "https://api.openai.com/v1"),
		Model:        getenvDefault("EMBEDDING_MODEL", "text-embedding-ada-002"),
		APIKey:       os.Getenv("OPENAI_API_KEY"),
		Dimensions:   dimensions,
		HTTPTimeoutS: timeout,
	}
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("embedding provider requires OPENAI_API_KEY")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("embedding provider requires EMBEDDING_ENDPOINT")
	}
	return nil
}
