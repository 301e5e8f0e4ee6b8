package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://cms.example.com\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cms.example.com", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset fields keep defaults.
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://file.example.com\n"), 0o644))

	t.Setenv("CMSCTL_API_URL", "https://env.example.com")
	t.Setenv("CMSCTL_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
