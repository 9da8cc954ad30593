package domain

import (
	_ "embed"
	"fmt"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// ConfigTemplate returns the commented default configuration.
func ConfigTemplate() string {
	return configTemplateContent
}

// Default configuration values.
const (
	DefaultCredentialsFile = "client_secret.json"
	DefaultTokenFile       = "token.json"
	DefaultCallbackPort    = 7276
	DefaultConcurrency     = 4
	DefaultSpacesFile      = "spaces.json"
	DefaultPeopleFile      = "people.json"
	DefaultTasksFile       = "tasks.json"
	DefaultCacheTTL        = "24h"
	DefaultLogLevel        = "info"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Auth     AuthConfig    `toml:"auth"`
	Fetch    FetchConfig   `toml:"fetch"`
	Files    FilesConfig   `toml:"files"`
	Cache    CacheConfig   `toml:"cache"`
	Metrics  MetricsConfig `toml:"metrics"`
	Log      LogConfig     `toml:"log"`
}

// AuthConfig holds OAuth settings from the [auth] section.
type AuthConfig struct {
	CredentialsFile string `toml:"credentials_file,omitempty"` // OAuth client secret JSON
	TokenFile       string `toml:"token_file,omitempty"`       // Cached user token
	CallbackPort    int    `toml:"callback_port,omitempty"`    // Local redirect port for the consent flow
}

// FetchConfig holds chat API settings from the [fetch] section.
type FetchConfig struct {
	Marker      string `toml:"marker,omitempty"`       // Phrase identifying task notifications
	RetryDelay  string `toml:"retry_delay,omitempty"`  // Delay between attempts (Go duration)
	MaxAttempts int    `toml:"max_attempts,omitempty"` // Attempts per API call
	Concurrency int    `toml:"concurrency,omitempty"`  // Spaces fetched in parallel
}

// RetryPolicy builds the retry policy described by the settings.
func (f FetchConfig) RetryPolicy() (RetryPolicy, error) {
	delay := DefaultRetryDelay
	if f.RetryDelay != "" {
		d, err := time.ParseDuration(f.RetryDelay)
		if err != nil {
			return RetryPolicy{}, fmt.Errorf("invalid fetch.retry_delay %q: %w", f.RetryDelay, err)
		}
		delay = d
	}
	attempts := f.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	return RetryPolicy{MaxAttempts: attempts, Backoff: FixedBackoff(delay)}, nil
}

// FilesConfig holds data file names from the [files] section.
// Relative names are resolved against the working directory.
type FilesConfig struct {
	Spaces string `toml:"spaces,omitempty"`
	People string `toml:"people,omitempty"`
	Tasks  string `toml:"tasks,omitempty"`
}

// CacheConfig holds message cache settings from the [cache] section.
type CacheConfig struct {
	RedisAddr string `toml:"redis_addr,omitempty"` // Empty disables the cache
	TTL       string `toml:"ttl,omitempty"`        // Go duration
}

// Enabled returns true if a cache backend is configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// TTLDuration parses TTL, falling back to DefaultCacheTTL.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	ttl := c.TTL
	if ttl == "" {
		ttl = DefaultCacheTTL
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return 0, fmt.Errorf("invalid cache.ttl %q: %w", c.TTL, err)
	}
	return d, nil
}

// MetricsConfig holds metrics settings from the [metrics] section.
type MetricsConfig struct {
	Textfile string `toml:"textfile,omitempty"` // Prometheus textfile path; empty disables
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			CredentialsFile: DefaultCredentialsFile,
			TokenFile:       DefaultTokenFile,
			CallbackPort:    DefaultCallbackPort,
		},
		Fetch: FetchConfig{
			Marker:      TaskNotificationMarker,
			RetryDelay:  DefaultRetryDelay.String(),
			MaxAttempts: DefaultMaxAttempts,
			Concurrency: DefaultConcurrency,
		},
		Files: FilesConfig{
			Spaces: DefaultSpacesFile,
			People: DefaultPeopleFile,
			Tasks:  DefaultTasksFile,
		},
		Cache: CacheConfig{
			TTL: DefaultCacheTTL,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}
