// Package config provides configuration loading and validation for the CLI
// and the gateway server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults for optional settings.
const (
	DefaultPort        = 8080
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds everything the process needs: where the remote backend lives,
// where client state persists, and how the gateway listens.
type Config struct {
	BackendURL  string        // Base URL of the remote job-board backend (required)
	StateFile   string        // Path of the persisted client state file
	HTTPTimeout time.Duration // Timeout for backend calls
	Port        int           // Gateway listen port (serve command only)
}

// Load reads configuration from the environment. Callers are expected to have
// run godotenv.Load first so a .env file is honored.
func Load() (*Config, error) {
	cfg := &Config{
		BackendURL:  os.Getenv("JOBBOARD_BACKEND_URL"),
		StateFile:   os.Getenv("JOBBOARD_STATE_FILE"),
		HTTPTimeout: DefaultHTTPTimeout,
		Port:        DefaultPort,
	}

	if raw := os.Getenv("JOBBOARD_HTTP_TIMEOUT"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 1 {
			return nil, fmt.Errorf("config error: JOBBOARD_HTTP_TIMEOUT must be a positive number of seconds, got %q", raw)
		}
		cfg.HTTPTimeout = time.Duration(secs) * time.Second
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("config error: PORT must be a valid port number, got %q", raw)
		}
		cfg.Port = port
	}

	if cfg.StateFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config error: JOBBOARD_STATE_FILE is unset and the home directory is unavailable: %w", err)
		}
		cfg.StateFile = filepath.Join(home, ".job-board", "state.json")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("config error: JOBBOARD_BACKEND_URL is required")
	}
	parsed, err := url.Parse(c.BackendURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config error: JOBBOARD_BACKEND_URL is not a valid URL: %q", c.BackendURL)
	}
	if c.StateFile == "" {
		return fmt.Errorf("config error: state file path is empty")
	}
	return nil
}
