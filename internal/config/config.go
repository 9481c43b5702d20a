// Package config loads runtime settings for the serve and convert
// commands from an optional YAML file plus the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/nmalhotra/guidepress/core/generate"
	"github.com/nmalhotra/guidepress/core/resource"
)

const (
	// EnvAPIKey names the environment variable holding the Gemini key.
	EnvAPIKey = "GEMINI_API_KEY"

	// DefaultAddr is the default listen address for the server.
	DefaultAddr = ":8080"
)

// ErrInvalidBound marks config bounds the pipeline cannot run with.
var ErrInvalidBound = errors.New("bound must be positive")

// Config holds the shared runtime settings. The API key comes from the
// environment only, never from the config file.
type Config struct {
	Addr      string `yaml:"addr"`
	Model     string `yaml:"model"`
	OutputDir string `yaml:"output_dir"`

	// Image loader bounds.
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	MaxImageBytes int64         `yaml:"max_image_bytes"`
	MaxImageEdge  int           `yaml:"max_image_edge"`

	// Gemini quota retry policy.
	RetryCount     int           `yaml:"retry_count"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`

	APIKey string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:           DefaultAddr,
		FetchTimeout:   resource.DefaultFetchTimeout,
		MaxImageBytes:  resource.DefaultMaxBytes,
		MaxImageEdge:   resource.DefaultMaxEdge,
		RetryCount:     generate.DefaultAttempts,
		RetryBaseDelay: generate.DefaultBaseDelay,
	}
}

// Load reads settings from the given YAML file, if any, and overlays
// environment values. An empty path loads defaults. Fields absent from
// the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.APIKey = os.Getenv(EnvAPIKey)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects bounds the loader or generator cannot operate with.
func (c Config) Validate() error {
	bounds := []struct {
		name  string
		value int64
	}{
		{"fetch_timeout", int64(c.FetchTimeout)},
		{"max_image_bytes", c.MaxImageBytes},
		{"max_image_edge", int64(c.MaxImageEdge)},
		{"retry_count", int64(c.RetryCount)},
		{"retry_base_delay", int64(c.RetryBaseDelay)},
	}
	for _, b := range bounds {
		if b.value <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidBound, b.name)
		}
	}
	return nil
}
