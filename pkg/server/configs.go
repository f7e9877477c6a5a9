package server

import (
	"os"
	"strconv"
)

// Config defines the HTTP server settings.
type Config struct {
	// Host is the interface the server binds to. Empty binds all.
	Host string `yaml:"host" envconfig:"SERVER_HOST"`

	// Port is the TCP port the API listens on.
	Port int `yaml:"port" envconfig:"SERVER_PORT"`
}

const defaultPort = 8000

// NewConfig reads the server configuration from the environment.
func NewConfig() *Config {
	port := defaultPort
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}
	return &Config{
		Host: os.Getenv("SERVER_HOST"),
		Port: port,
	}
}
