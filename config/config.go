// Package config loads recview settings from a YAML file.
package config

import (
	"os"
	"time"

	"github.com/morikuni/failure/v2"
	"gopkg.in/yaml.v3"
)

// ErrorCode defines error types for configuration
type ErrorCode string

const (
	// ErrConfig represents an unreadable or invalid configuration file
	ErrConfig ErrorCode = "ConfigError"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Config is the top-level configuration.
type Config struct {
	// Data is the raw record file. Empty means the bundled dataset.
	Data  string      `yaml:"data"`
	Fetch FetchConfig `yaml:"fetch"`
}

// FetchConfig controls image retrieval.
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxBytes    int64         `yaml:"max_bytes"`
	UserAgent   string        `yaml:"user_agent"`
	Deduplicate bool          `yaml:"deduplicate"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.Translate(err, ErrConfig,
			failure.Message("Failed to read config file"),
			failure.Context{"path": path},
		)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, failure.Translate(err, ErrConfig,
			failure.Message("Invalid config file"),
			failure.Context{"path": path},
		)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = 10 * 1024 * 1024
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "recview"
	}
}
