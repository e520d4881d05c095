package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the default
// configuration file location.
const EnvConfigPath = "TUIROBOT_CONFIG"

// Lookup scopes and search orders accepted in the configuration.
const (
	ScopeShowing = "showing"
	ScopeAll     = "all"

	OrderDepth   = "depth"
	OrderBreadth = "breadth"
)

// Config holds all configuration for a tuirobot session
type Config struct {
	// Waits
	Timeout      string `yaml:"timeout"`
	PollInterval string `yaml:"poll_interval"`

	// Lookup
	LookupScope  string `yaml:"lookup_scope"`  // showing, all
	SearchOrder  string `yaml:"search_order"`  // depth, breadth
	NewHierarchy bool   `yaml:"new_hierarchy"` // ignore windows that existed before the session

	Log     LogConfig     `yaml:"log"`
	Journal JournalConfig `yaml:"journal"`
	Printer PrinterConfig `yaml:"printer"`
	Screen  ScreenConfig  `yaml:"screen"`
}

// LogConfig configures the session logger
type LogConfig struct {
	// File is where log lines go; empty discards them
	File   string `yaml:"file"`
	Prefix string `yaml:"prefix"`
}

// JournalConfig configures the SQLite journal of window events and searches
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// PrinterConfig configures hierarchy dumps in lookup failures
type PrinterConfig struct {
	MaxWidth int    `yaml:"max_width"`
	Indent   string `yaml:"indent"`
}

// ScreenConfig sizes the simulation screen used by terminal toolkits
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:      "5s",
		PollInterval: "50ms",
		LookupScope:  ScopeShowing,
		SearchOrder:  OrderDepth,
		NewHierarchy: true,
		Log:          DefaultLogConfig(),
		Journal:      DefaultJournalConfig(),
		Printer:      DefaultPrinterConfig(),
		Screen:       DefaultScreenConfig(),
	}
}

// DefaultLogConfig returns the default logging configuration
func DefaultLogConfig() LogConfig {
	return LogConfig{
		File:   "",
		Prefix: "[tuirobot] ",
	}
}

// DefaultJournalConfig returns the default journal configuration
func DefaultJournalConfig() JournalConfig {
	return JournalConfig{
		Enabled: false,
		Path:    DefaultJournalPath(),
	}
}

// DefaultPrinterConfig returns the default printer configuration
func DefaultPrinterConfig() PrinterConfig {
	return PrinterConfig{
		MaxWidth: 0,
		Indent:   "  ",
	}
}

// DefaultScreenConfig returns the default simulation screen size
func DefaultScreenConfig() ScreenConfig {
	return ScreenConfig{
		Width:  120,
		Height: 40,
	}
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// DefaultConfigPath returns the configuration file path, honouring
// TUIROBOT_CONFIG
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tuirobot", "config.yaml")
}

// DefaultJournalPath returns the default journal database path
func DefaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tuirobot", "journal.db")
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetTimeout returns the parsed wait timeout
func (c *Config) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 5*time.Second)
}

// GetPollInterval returns the parsed poll interval
func (c *Config) GetPollInterval() time.Duration {
	return parseDuration(c.PollInterval, 50*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return fallback
}
