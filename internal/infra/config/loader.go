// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/chat-tasks/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	localPath     string // Path to ./chattasks.toml (or --config override)
	globalConfDir string // Path to global config directory (e.g., ~/.config/chattasks)
}

// NewLoader creates a new Loader for the given working directory.
// A non-empty configPath replaces the local config location.
func NewLoader(dir, configPath string) *Loader {
	return NewLoaderWithGlobalDir(dir, configPath, defaultGlobalConfigDir())
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dir, configPath, globalConfDir string) *Loader {
	if configPath == "" {
		configPath = domain.LocalConfigPath(dir)
	}
	return &Loader{
		localPath:     configPath,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (global + local).
// Local config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	local, err := l.LoadLocal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- local (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.GlobalConfigFileName))
}

// LoadLocal returns only the working directory configuration.
func (l *Loader) LoadLocal() (*domain.Config, error) {
	return l.loadFile(l.localPath)
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	warn := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "auth":
			for k, v := range m {
				switch k {
				case "credentials_file":
					res.Auth.CredentialsFile = asString(v)
				case "token_file":
					res.Auth.TokenFile = asString(v)
				case "callback_port":
					res.Auth.CallbackPort = asInt(v)
				default:
					warn(section, k)
				}
			}
		case "fetch":
			for k, v := range m {
				switch k {
				case "marker":
					res.Fetch.Marker = asString(v)
				case "retry_delay":
					res.Fetch.RetryDelay = asString(v)
				case "max_attempts":
					res.Fetch.MaxAttempts = asInt(v)
				case "concurrency":
					res.Fetch.Concurrency = asInt(v)
				default:
					warn(section, k)
				}
			}
		case "files":
			for k, v := range m {
				switch k {
				case "spaces":
					res.Files.Spaces = asString(v)
				case "people":
					res.Files.People = asString(v)
				case "tasks":
					res.Files.Tasks = asString(v)
				default:
					warn(section, k)
				}
			}
		case "cache":
			for k, v := range m {
				switch k {
				case "redis_addr":
					res.Cache.RedisAddr = asString(v)
				case "ttl":
					res.Cache.TTL = asString(v)
				default:
					warn(section, k)
				}
			}
		case "metrics":
			for k, v := range m {
				switch k {
				case "textfile":
					res.Metrics.Textfile = asString(v)
				default:
					warn(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					res.Log.Level = asString(v)
				default:
					warn(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt accepts the integer types go-toml produces for untyped maps.
func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	if override.Auth.CredentialsFile != "" {
		result.Auth.CredentialsFile = override.Auth.CredentialsFile
	}
	if override.Auth.TokenFile != "" {
		result.Auth.TokenFile = override.Auth.TokenFile
	}
	if override.Auth.CallbackPort != 0 {
		result.Auth.CallbackPort = override.Auth.CallbackPort
	}
	if override.Fetch.Marker != "" {
		result.Fetch.Marker = override.Fetch.Marker
	}
	if override.Fetch.RetryDelay != "" {
		result.Fetch.RetryDelay = override.Fetch.RetryDelay
	}
	if override.Fetch.MaxAttempts != 0 {
		result.Fetch.MaxAttempts = override.Fetch.MaxAttempts
	}
	if override.Fetch.Concurrency != 0 {
		result.Fetch.Concurrency = override.Fetch.Concurrency
	}
	if override.Files.Spaces != "" {
		result.Files.Spaces = override.Files.Spaces
	}
	if override.Files.People != "" {
		result.Files.People = override.Files.People
	}
	if override.Files.Tasks != "" {
		result.Files.Tasks = override.Files.Tasks
	}
	if override.Cache.RedisAddr != "" {
		result.Cache.RedisAddr = override.Cache.RedisAddr
	}
	if override.Cache.TTL != "" {
		result.Cache.TTL = override.Cache.TTL
	}
	if override.Metrics.Textfile != "" {
		result.Metrics.Textfile = override.Metrics.Textfile
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}

	return &result
}
