// Package config provides configuration management for the radio schedule service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the Sveriges Radio open API root.
const DefaultBaseURL = "https://api.sr.se/api/v2"

var (
	// ErrBaseURLRequired is returned when the API base URL is not provided.
	ErrBaseURLRequired = errors.New("base URL is required")
	// ErrInvalidPort is returned when port number is invalid.
	ErrInvalidPort = errors.New("invalid port number")
	// ErrHTTPTimeoutPositive is returned when the HTTP timeout is not positive.
	ErrHTTPTimeoutPositive = errors.New("http timeout must be positive")
	// ErrInvalidLogLevel is returned when log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidRetries is returned when the retry settings are negative.
	ErrInvalidRetries = errors.New("retries and retry delay must not be negative")
	// ErrInvalidRefreshCron is returned when the refresh schedule cannot be parsed.
	ErrInvalidRefreshCron = errors.New("invalid refresh cron expression")
)

// Config holds the application configuration.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	Port        int           `yaml:"port"`
	LogLevel    string        `yaml:"log_level"`
	LogFile     string        `yaml:"log_file"`
	RefreshCron string        `yaml:"refresh_cron"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Retries     int           `yaml:"retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	UserAgent   string        `yaml:"user_agent"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Port:        8080,
		LogLevel:    "info",
		RefreshCron: "@hourly",
		HTTPTimeout: 60 * time.Second,
		Retries:     2,
		RetryDelay:  time.Second,
		UserAgent:   "radioinfo/1.0",
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}

	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	if c.HTTPTimeout <= 0 {
		return ErrHTTPTimeoutPositive
	}

	if c.Retries < 0 || c.RetryDelay < 0 {
		return ErrInvalidRetries
	}

	if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidRefreshCron, c.RefreshCron, err)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %s (must be debug, info, warn, or error)", ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}
