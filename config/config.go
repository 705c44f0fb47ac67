// ABOUTME: Runtime configuration loaded from .env and environment variables
// ABOUTME: Resolves the database path under the XDG data directory by default
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	EnvDBPath  = "LEADFLOW_DB_PATH"
	EnvMCPName = "LEADFLOW_MCP_NAME"

	defaultMCPName = "leadflow"
)

type Config struct {
	DBPath  string
	MCPName string
}

// DefaultDBPath returns the database location under $XDG_DATA_HOME.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "leadflow", "leadflow.db")
}

// Load reads an optional .env in the working directory, then the environment.
// A non-empty dbPathFlag wins over both.
func Load(dbPathFlag string) *Config {
	// Missing .env is normal
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:  getEnv(EnvDBPath, DefaultDBPath()),
		MCPName: getEnv(EnvMCPName, defaultMCPName),
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
