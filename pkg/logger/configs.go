package logger

import "os"

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

type Config struct {
	// Minimum level that is emitted. One of debug, info, warning, error.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`
}

// NewConfig reads the logger configuration from the environment,
// defaulting to info.
func NewConfig() Config {
	level := os.Getenv("ZAP_LOGGER_LEVEL")
	if level == "" {
		level = Info
	}
	return Config{Level: level}
}
