package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file into the process environment before any
// NewConfig runs. A missing file is not an error; local development uses
// .env, deployments set real environment variables.
func LoadDotenv() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}
