package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads environment variables from a .env file.
// A missing file is silently ignored. Existing env vars are never overridden.
func LoadDotenv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}
