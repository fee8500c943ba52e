package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "./bron2.db", cfg.Container)
	assert.Equal(t, "unknown", cfg.Operator)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "127.0.0.1", cfg.API.Bind)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Container = "/data/wells.db"
	cfg.Operator = "provincie-gelderland"
	cfg.API.Port = 9200

	require.NoError(t, SaveConfig(cfg, path))
	assert.True(t, ConfigExists(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBootstrapConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := BootstrapConfig(path, "/data/wells.db")
	require.NoError(t, err)

	assert.Equal(t, "/data/wells.db", cfg.Container)
	assert.Len(t, cfg.API.APIKey, 64, "32 random bytes hex-encoded")
	assert.True(t, ConfigExists(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.APIKey, loaded.API.APIKey)
}

func TestGenerateSecureKey(t *testing.T) {
	a, err := GenerateSecureKey(16)
	require.NoError(t, err)
	b, err := GenerateSecureKey(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
