package database

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds database configuration
type Config struct {
	Path string
}

// NewConfig creates a new database configuration
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, we'll use defaults or environment variables
		log.Println("Warning: .env file not found")
	}

	return &Config{
		Path: getEnv("DB_PATH", "data/campusledger.db"),
	}, nil
}

// DSN returns the SQLite connection string. Foreign keys are enforced on
// every connection; the schema relies on them for cascade semantics.
func (c *Config) DSN() string {
	return c.Path + "?_foreign_keys=on"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
