// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies XDG defaults, environment overrides and flag precedence
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDBPath(t *testing.T) {
	origHome := xdg.DataHome
	xdg.DataHome = t.TempDir()
	defer func() { xdg.DataHome = origHome }()

	assert.Equal(t, filepath.Join(xdg.DataHome, "leadflow", "leadflow.db"), DefaultDBPath())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvMCPName, "")
	t.Chdir(t.TempDir())

	cfg := Load("")
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.Equal(t, "leadflow", cfg.MCPName)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/env.db")
	t.Setenv(EnvMCPName, "crm-test")
	t.Chdir(t.TempDir())

	cfg := Load("")
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, "crm-test", cfg.MCPName)
}

func TestLoadFlagWins(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/env.db")
	t.Chdir(t.TempDir())

	cfg := Load("/tmp/flag.db")
	assert.Equal(t, "/tmp/flag.db", cfg.DBPath)
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEADFLOW_MCP_NAME=from-dotenv\n"), 0o600))
	t.Setenv(EnvMCPName, "")
	// godotenv does not override variables that are already set, even empty ones
	require.NoError(t, os.Unsetenv(EnvMCPName))

	cfg := Load("")
	assert.Equal(t, "from-dotenv", cfg.MCPName)
}
