package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// OpenEnd means the selection extends through the end of the catalog.
const OpenEnd = -1

// Config defines configuration for the alkisfetch CLI.
type Config struct {
	Catalog    string        `yaml:"catalog"`
	Output     string        `yaml:"output"`
	StartIndex int           `yaml:"start_index"`
	EndIndex   int           `yaml:"end_index"`
	Workers    int           `yaml:"workers"`
	Force      bool          `yaml:"force"`
	DryRun     bool          `yaml:"dry_run"`
	Progress   bool          `yaml:"progress"`
	Insecure   bool          `yaml:"insecure"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
	Retry      RetryConfig   `yaml:"retry"`
}

// RetryConfig defines retry behavior.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Output:     "data/sh/alkis",
		StartIndex: 0,
		EndIndex:   OpenEnd,
		Workers:    1,
		Timeout:    30 * time.Second,
		Retry: RetryConfig{
			Attempts:   3,
			Backoff:    2 * time.Second,
			MaxBackoff: 30 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations and an
// optional end index (0 is a valid explicit end bound).
type yamlConfig struct {
	Catalog    string          `yaml:"catalog"`
	Output     string          `yaml:"output"`
	StartIndex *int            `yaml:"start_index"`
	EndIndex   *int            `yaml:"end_index"`
	Workers    int             `yaml:"workers"`
	Force      bool            `yaml:"force"`
	DryRun     bool            `yaml:"dry_run"`
	Progress   bool            `yaml:"progress"`
	Insecure   bool            `yaml:"insecure"`
	Timeout    string          `yaml:"timeout"`
	UserAgent  string          `yaml:"user_agent"`
	Retry      yamlRetryConfig `yaml:"retry"`
}

type yamlRetryConfig struct {
	Attempts   int    `yaml:"attempts"`
	Backoff    string `yaml:"backoff"`
	MaxBackoff string `yaml:"max_backoff"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Catalog != "" {
		cfg.Catalog = yc.Catalog
	}
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.StartIndex != nil {
		cfg.StartIndex = *yc.StartIndex
	}
	if yc.EndIndex != nil {
		cfg.EndIndex = *yc.EndIndex
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	cfg.Force = yc.Force
	cfg.DryRun = yc.DryRun
	cfg.Progress = yc.Progress
	cfg.Insecure = yc.Insecure
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.UserAgent != "" {
		cfg.UserAgent = yc.UserAgent
	}
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.Backoff != "" {
		d, err := time.ParseDuration(yc.Retry.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.backoff: %w", err)
		}
		cfg.Retry.Backoff = d
	}
	if yc.Retry.MaxBackoff != "" {
		d, err := time.ParseDuration(yc.Retry.MaxBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.max_backoff: %w", err)
		}
		cfg.Retry.MaxBackoff = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the ALKISFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("ALKISFETCH_CATALOG"); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv("ALKISFETCH_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("ALKISFETCH_START_INDEX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse ALKISFETCH_START_INDEX: %w", err)
		}
		c.StartIndex = n
	}
	if v := os.Getenv("ALKISFETCH_END_INDEX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse ALKISFETCH_END_INDEX: %w", err)
		}
		c.EndIndex = n
	}
	if v := os.Getenv("ALKISFETCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse ALKISFETCH_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("ALKISFETCH_FORCE"); v != "" {
		c.Force = v == "true" || v == "1"
	}
	if v := os.Getenv("ALKISFETCH_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("ALKISFETCH_INSECURE"); v != "" {
		c.Insecure = v == "true" || v == "1"
	}
	if v := os.Getenv("ALKISFETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse ALKISFETCH_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("ALKISFETCH_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("ALKISFETCH_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse ALKISFETCH_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("ALKISFETCH_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse ALKISFETCH_RETRY_BACKOFF: %w", err)
		}
		c.Retry.Backoff = d
	}
	if v := os.Getenv("ALKISFETCH_RETRY_MAX_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse ALKISFETCH_RETRY_MAX_BACKOFF: %w", err)
		}
		c.Retry.MaxBackoff = d
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Catalog == "" {
		return errors.New("config: catalog location is required")
	}
	if c.Output == "" {
		return errors.New("config: output directory is required")
	}
	if c.StartIndex < 0 {
		return errors.New("config: start index cannot be negative")
	}
	if c.EndIndex != OpenEnd && c.EndIndex < c.StartIndex {
		return errors.New("config: end index must be greater than or equal to start index")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.Retry.Attempts <= 0 {
		return errors.New("config: retry attempts must be positive")
	}
	return nil
}
