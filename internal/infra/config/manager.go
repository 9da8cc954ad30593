package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/chat-tasks/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	localPath     string // Path to ./chattasks.toml (or --config override)
	globalConfDir string // Path to global config directory (e.g., ~/.config/chattasks)
}

// NewManager creates a new Manager.
func NewManager(dir, configPath string) *Manager {
	return NewManagerWithGlobalDir(dir, configPath, defaultGlobalConfigDir())
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(dir, configPath, globalConfDir string) *Manager {
	if configPath == "" {
		configPath = domain.LocalConfigPath(dir)
	}
	return &Manager{
		localPath:     configPath,
		globalConfDir: globalConfDir,
	}
}

// GetLocalConfigInfo returns information about the local config file.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(m.localPath)
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.GlobalConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitLocalConfig creates the local config file from the template.
func (m *Manager) InitLocalConfig(force bool) (string, error) {
	return m.localPath, m.initConfig(m.localPath, force)
}

// InitGlobalConfig creates the global config file from the template.
func (m *Manager) InitGlobalConfig(force bool) (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(m.globalConfDir, domain.GlobalConfigFileName)
	return path, m.initConfig(path, force)
}

// initConfig writes the template unless the file exists and force is unset.
func (m *Manager) initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return domain.ErrConfigExists
	}
	return os.WriteFile(path, []byte(domain.ConfigTemplate()), 0o600)
}
