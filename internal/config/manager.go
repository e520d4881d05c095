package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Manager provides centralized configuration management with validation
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	watchers []func(*Config)

	configPath string
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config:   DefaultConfig(),
		watchers: make([]func(*Config), 0),
	}
}

// LoadFromFile loads configuration from a file with validation
func (m *Manager) LoadFromFile(configPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Expand ~ to home directory if present
	configPath = expandPath(configPath)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m.applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.config = cfg
	m.configPath = configPath

	m.notifyWatchers(cfg)

	return nil
}

// LoadFromDefaults loads default configuration
func (m *Manager) LoadFromDefaults() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := DefaultConfig()
	m.applyDefaults(cfg)

	m.config = cfg
	m.configPath = ""

	m.notifyWatchers(cfg)
}

// GetConfig returns a copy of the current configuration
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyConfig(m.config)
}

// ConfigPath returns the file the configuration was loaded from
func (m *Manager) ConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// UpdateConfig updates the configuration with validation
func (m *Manager) UpdateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cfg = copyConfig(cfg)
	m.applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.config = cfg
	m.notifyWatchers(cfg)

	return nil
}

// SaveToFile saves the current configuration to a file
func (m *Manager) SaveToFile(filePath string) error {
	m.mu.RLock()
	cfg := copyConfig(m.config)
	m.mu.RUnlock()

	if err := cfg.SaveConfig(expandPath(filePath)); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// AddWatcher adds a configuration change watcher
func (m *Manager) AddWatcher(watcher func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.watchers = append(m.watchers, watcher)
}

// JournalPath returns the journal path with ~ expanded
func (m *Manager) JournalPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config.Journal.Path == "" {
		return DefaultJournalPath()
	}
	return expandPath(m.config.Journal.Path)
}

// Validate checks cfg for values a session cannot run with
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	for name, value := range map[string]string{"timeout": cfg.Timeout, "poll_interval": cfg.PollInterval} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: negative duration %v", name, d)
		}
	}

	switch cfg.LookupScope {
	case "", ScopeShowing, ScopeAll:
	default:
		return fmt.Errorf("invalid lookup_scope %q: want %q or %q", cfg.LookupScope, ScopeShowing, ScopeAll)
	}

	switch cfg.SearchOrder {
	case "", OrderDepth, OrderBreadth:
	default:
		return fmt.Errorf("invalid search_order %q: want %q or %q", cfg.SearchOrder, OrderDepth, OrderBreadth)
	}

	if cfg.Printer.MaxWidth < 0 {
		return fmt.Errorf("invalid printer max_width: %d", cfg.Printer.MaxWidth)
	}

	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		return fmt.Errorf("invalid screen dimensions %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}

	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return fmt.Errorf("journal is enabled but no path specified")
	}

	return nil
}

// applyDefaults applies default values for missing configuration
func (m *Manager) applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Timeout == "" {
		cfg.Timeout = defaults.Timeout
	}

	if cfg.PollInterval == "" {
		cfg.PollInterval = defaults.PollInterval
	}

	if cfg.LookupScope == "" {
		cfg.LookupScope = defaults.LookupScope
	}

	if cfg.SearchOrder == "" {
		cfg.SearchOrder = defaults.SearchOrder
	}

	if cfg.Log.Prefix == "" {
		cfg.Log.Prefix = defaults.Log.Prefix
	}

	if cfg.Printer.Indent == "" {
		cfg.Printer.Indent = defaults.Printer.Indent
	}

	if cfg.Screen == (ScreenConfig{}) {
		cfg.Screen = defaults.Screen
	}

	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Journal.Path = expandPath(cfg.Journal.Path)
}

func copyConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}

	copy := *cfg
	return &copy
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// notifyWatchers notifies all configuration watchers
func (m *Manager) notifyWatchers(cfg *Config) {
	for _, watcher := range m.watchers {
		watcher(copyConfig(cfg))
	}
}
