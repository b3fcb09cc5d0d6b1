package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JOBBOARD_BACKEND_URL", "http://backend.local:8000")
	t.Setenv("JOBBOARD_STATE_FILE", filepath.Join(t.TempDir(), "state.json"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://backend.local:8000", cfg.BackendURL)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
}

func TestLoad_MissingBackendURL(t *testing.T) {
	t.Setenv("JOBBOARD_BACKEND_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOBBOARD_BACKEND_URL is required")
}

func TestLoad_InvalidBackendURL(t *testing.T) {
	t.Setenv("JOBBOARD_BACKEND_URL", "backend.local")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid URL")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JOBBOARD_BACKEND_URL", "https://jobs.example.com")
	t.Setenv("JOBBOARD_STATE_FILE", filepath.Join(t.TempDir(), "s.json"))
	t.Setenv("JOBBOARD_HTTP_TIMEOUT", "5")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_BadTimeout(t *testing.T) {
	t.Setenv("JOBBOARD_BACKEND_URL", "https://jobs.example.com")
	t.Setenv("JOBBOARD_HTTP_TIMEOUT", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOBBOARD_HTTP_TIMEOUT")
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("JOBBOARD_BACKEND_URL", "https://jobs.example.com")
	t.Setenv("PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}
