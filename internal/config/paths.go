package config

import (
	"os"
	"path/filepath"
)

// DataPath returns the root directory for TodoEvolve data.
// It uses $TODOEVOLVE_PATH if set, otherwise defaults to ~/.todoevolve.
func DataPath() string {
	if v := os.Getenv("TODOEVOLVE_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".todoevolve")
	}
	return filepath.Join(home, ".todoevolve")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DataPath(), "config.yaml")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(DataPath(), ".env")
}
