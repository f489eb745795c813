// Package config loads shopctl configuration from a YAML file with
// environment overrides. Missing file means defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultEndpoint = "http://localhost:8082/api/v1"
	defaultTimeout  = "10s"
	defaultDebounce = "500ms"
	defaultLogLevel = "warn"
)

// Config holds all shopctl configuration.
type Config struct {
	// Endpoint is the base URL of the catalog/cart service.
	Endpoint string `yaml:"endpoint"`

	// Token optionally supplies the bearer token directly, for scripted
	// use. When set it takes precedence over the saved session.
	Token string `yaml:"token"`

	// Timeout bounds each HTTP request (Go duration string).
	Timeout string `yaml:"timeout"`

	// Debounce is the quiet period before a search keystroke matures into
	// a remote call (Go duration string).
	Debounce string `yaml:"debounce"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Endpoint: defaultEndpoint,
		Timeout:  defaultTimeout,
		Debounce: defaultDebounce,
		LogLevel: defaultLogLevel,
	}
}

// DefaultPath is the conventional config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "shopctl", "config.yaml"), nil
}

// Load reads path, fills defaults for unset fields, applies env overrides
// and validates. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.Timeout == "" {
		c.Timeout = defaultTimeout
	}
	if c.Debounce == "" {
		c.Debounce = defaultDebounce
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SHOPCTL_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("SHOPCTL_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("SHOPCTL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks every field that is parsed later, naming the field in the
// error.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("config: endpoint must not be empty")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("config: timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Debounce); err != nil {
		return fmt.Errorf("config: debounce: %w", err)
	}
	return nil
}

// RequestTimeout returns the parsed HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(defaultTimeout)
	}
	return d
}

// DebounceWindow returns the parsed debounce window.
func (c *Config) DebounceWindow() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		d, _ = time.ParseDuration(defaultDebounce)
	}
	return d
}
