// Package config loads the client configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/pittsix/cmsctl/internal/errors"
)

// Config holds the client settings. Environment variables win over the
// file, which wins over defaults.
type Config struct {
	// APIURL is the CMS backend base URL.
	APIURL string `yaml:"api_url" env:"CMSCTL_API_URL"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout" env:"CMSCTL_TIMEOUT"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"CMSCTL_LOG_LEVEL"`

	// LogFormat is json or text.
	LogFormat string `yaml:"log_format" env:"CMSCTL_LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:    "http://localhost:8080",
		Timeout:   30 * time.Second,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// DefaultPath returns the standard config file location under the user
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cmsctl", "config.yaml"), nil
}

// Load reads configuration from the given file path (missing file is
// fine) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read config file", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.NewConfigInvalidError(path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to parse environment overrides", err)
	}

	return cfg, nil
}
