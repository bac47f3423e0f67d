package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table: orders\nregion: us-east-1\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "orders", cfg.Table)
	assert.Equal(t, "us-east-1", cfg.Region)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnvironmentOverridesFileValues(t *testing.T) {
	t.Setenv("DYNAKV_TABLE", "from-env")
	t.Setenv("DYNAKV_ENDPOINT", "http://localhost:8000")

	cfg := Config{Table: "from-file", Region: "us-east-1"}.FromEnvironment()
	assert.Equal(t, "from-env", cfg.Table)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "http://localhost:8000", cfg.Endpoint)
}
