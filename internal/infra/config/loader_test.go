package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_Load_LocalConfigOnly(t *testing.T) {
	dir := t.TempDir()
	globalDir := t.TempDir()

	writeFile(t, filepath.Join(dir, domain.ConfigFileName), `
[auth]
credentials_file = "secret.json"
callback_port = 9000

[fetch]
retry_delay = "5s"
max_attempts = 5
concurrency = 2

[files]
tasks = "tasks.yaml"

[log]
level = "debug"
`)

	loader := NewLoaderWithGlobalDir(dir, "", globalDir)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "secret.json", cfg.Auth.CredentialsFile)
	assert.Equal(t, domain.DefaultTokenFile, cfg.Auth.TokenFile)
	assert.Equal(t, 9000, cfg.Auth.CallbackPort)
	assert.Equal(t, "5s", cfg.Fetch.RetryDelay)
	assert.Equal(t, 5, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 2, cfg.Fetch.Concurrency)
	assert.Equal(t, domain.TaskNotificationMarker, cfg.Fetch.Marker)
	assert.Equal(t, "tasks.yaml", cfg.Files.Tasks)
	assert.Equal(t, domain.DefaultSpacesFile, cfg.Files.Spaces)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_GlobalConfigOnly(t *testing.T) {
	dir := t.TempDir()
	globalDir := t.TempDir()

	writeFile(t, filepath.Join(globalDir, domain.GlobalConfigFileName), `
[cache]
redis_addr = "localhost:6379"
ttl = "1h"
`)

	loader := NewLoaderWithGlobalDir(dir, "", globalDir)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "1h", cfg.Cache.TTL)
	assert.True(t, cfg.Cache.Enabled())
}

func TestLoader_Load_LocalOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	globalDir := t.TempDir()

	writeFile(t, filepath.Join(globalDir, domain.GlobalConfigFileName), `
[fetch]
marker = "via Global"
concurrency = 8

[metrics]
textfile = "/var/lib/node_exporter/chattasks.prom"
`)
	writeFile(t, filepath.Join(dir, domain.ConfigFileName), `
[fetch]
marker = "via Local"
`)

	loader := NewLoaderWithGlobalDir(dir, "", globalDir)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "via Local", cfg.Fetch.Marker)
	assert.Equal(t, 8, cfg.Fetch.Concurrency)
	assert.Equal(t, "/var/lib/node_exporter/chattasks.prom", cfg.Metrics.Textfile)
}

func TestLoader_Load_NoConfigFiles(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), "", t.TempDir())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_ConfigPathOverride(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(t.TempDir(), "custom.toml")

	writeFile(t, filepath.Join(dir, domain.ConfigFileName), `
[log]
level = "error"
`)
	writeFile(t, custom, `
[log]
level = "warn"
`)

	loader := NewLoaderWithGlobalDir(dir, custom, t.TempDir())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_LoadGlobal(t *testing.T) {
	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, domain.GlobalConfigFileName), `
[auth]
token_file = "/home/me/.token.json"
`)

	loader := NewLoaderWithGlobalDir(t.TempDir(), "", globalDir)
	cfg, err := loader.LoadGlobal()
	require.NoError(t, err)

	assert.Equal(t, "/home/me/.token.json", cfg.Auth.TokenFile)
}

func TestLoader_LoadGlobal_NotFound(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), "", t.TempDir())
	_, err := loader.LoadGlobal()
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_LoadGlobal_NoGlobalDir(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), "", "")
	_, err := loader.LoadGlobal()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, domain.ConfigFileName), "[fetch\nmarker = ")

	loader := NewLoaderWithGlobalDir(dir, "", t.TempDir())
	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoader_Load_UnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, domain.ConfigFileName), `
top_level = "x"

[fetch]
marker = "via Tasks"
unknown_fetch = 1

[mystery]
key = "value"
`)

	loader := NewLoaderWithGlobalDir(dir, "", t.TempDir())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"unknown key in [fetch]: unknown_fetch",
		"unknown section: mystery",
		"unknown section: top_level",
	}, cfg.Warnings)
}

func TestLoader_Load_TemplateHasNoWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, domain.ConfigFileName), domain.ConfigTemplate())

	loader := NewLoaderWithGlobalDir(dir, "", t.TempDir())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.DefaultConcurrency, cfg.Fetch.Concurrency)
}
