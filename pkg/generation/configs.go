package generation

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Base URL of an OpenAI-compatible API, e.g. "https://api.openai.com/v1".
	Endpoint string

	// Model identity used for answer synthesis.
	Model string

	// API credential, sent as a bearer token.
	APIKey string

	// HTTP timeout in seconds (default 60; generation is slow).
	HTTPTimeoutS int
}

// NewConfig reads from environment (no extra deps).
func NewConfig() *Config {
	timeout := 60
	if v := os.Getenv("GENERATION_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}
	return &Config{
		Endpoint:     getenvDefault("GENERATION_ENDPOINT", "https://api.openai.com/v1"),
		Model:        getenvDefault("GENERATION_MODEL", "gpt-3.5-turbo"),
		APIKey:       os.Getenv("OPENAI_API_KEY"),
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
		return fmt.Errorf("generation provider requires OPENAI_API_KEY")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("generation provider requires GENERATION_ENDPOINT")
	}
	return nil
}
