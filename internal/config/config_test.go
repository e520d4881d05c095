package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "5s", cfg.Timeout)
	assert.Equal(t, "50ms", cfg.PollInterval)
	assert.Equal(t, ScopeShowing, cfg.LookupScope)
	assert.Equal(t, OrderDepth, cfg.SearchOrder)
	assert.True(t, cfg.NewHierarchy)
	assert.Equal(t, "[tuirobot] ", cfg.Log.Prefix)
	assert.Empty(t, cfg.Log.File)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, 120, cfg.Screen.Width)
	assert.Equal(t, 40, cfg.Screen.Height)
	assert.NoError(t, Validate(cfg))
}

func TestGetDurations(t *testing.T) {
	tests := []struct {
		name        string
		timeout     string
		poll        string
		wantTimeout time.Duration
		wantPoll    time.Duration
	}{
		{name: "valid", timeout: "2s", poll: "25ms", wantTimeout: 2 * time.Second, wantPoll: 25 * time.Millisecond},
		{name: "empty", wantTimeout: 5 * time.Second, wantPoll: 50 * time.Millisecond},
		{name: "invalid", timeout: "soon", poll: "often", wantTimeout: 5 * time.Second, wantPoll: 50 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Timeout: tt.timeout, PollInterval: tt.poll}
			assert.Equal(t, tt.wantTimeout, cfg.GetTimeout())
			assert.Equal(t, tt.wantPoll, cfg.GetPollInterval())
		})
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	path := DefaultConfigPath()
	if path != "" {
		assert.Contains(t, path, filepath.Join(".config", "tuirobot", "config.yaml"))
	}

	t.Setenv(EnvConfigPath, "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", DefaultConfigPath())
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")

	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.yaml")

	assert.NoError(t, err) // Should not error for missing file
	assert.Equal(t, DefaultConfig().Timeout, cfg.Timeout)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	data := []byte(`
timeout: 2s
lookup_scope: all
search_order: breadth
new_hierarchy: false
journal:
  enabled: true
  path: /tmp/journal.db
`)
	require.NoError(t, os.WriteFile(configFile, data, 0600))

	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, "2s", cfg.Timeout)
	assert.Equal(t, "50ms", cfg.PollInterval, "unset keys keep defaults")
	assert.Equal(t, ScopeAll, cfg.LookupScope)
	assert.Equal(t, OrderBreadth, cfg.SearchOrder)
	assert.False(t, cfg.NewHierarchy)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal.Path)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "invalid.yaml")

	require.NoError(t, os.WriteFile(configFile, []byte("timeout: [unterminated"), 0600))

	cfg, err := LoadConfig(configFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Timeout = "9s"
	require.NoError(t, cfg.SaveConfig(configFile))
	assert.FileExists(t, configFile)

	raw, err := os.ReadFile(configFile)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &generic))
	assert.Equal(t, "9s", generic["timeout"])

	loaded, err := LoadConfig(configFile)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad timeout", mutate: func(c *Config) { c.Timeout = "forever" }, wantErr: "invalid timeout"},
		{name: "negative poll", mutate: func(c *Config) { c.PollInterval = "-5ms" }, wantErr: "invalid poll_interval: negative duration -5ms"},
		{name: "bad scope", mutate: func(c *Config) { c.LookupScope = "visible" }, wantErr: `invalid lookup_scope "visible"`},
		{name: "bad order", mutate: func(c *Config) { c.SearchOrder = "random" }, wantErr: `invalid search_order "random"`},
		{name: "negative width", mutate: func(c *Config) { c.Printer.MaxWidth = -1 }, wantErr: "invalid printer max_width"},
		{name: "empty screen", mutate: func(c *Config) { c.Screen.Height = 0 }, wantErr: "invalid screen dimensions"},
		{name: "journal without path", mutate: func(c *Config) { c.Journal = JournalConfig{Enabled: true} }, wantErr: "journal is enabled but no path specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.Error(t, Validate(nil))
}

func TestManager_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("lookup_scope: all\nscreen: {width: 0, height: 0}\nlog: {prefix: ''}\n"), 0600))

	m := NewManager()
	var seen []*Config
	m.AddWatcher(func(c *Config) { seen = append(seen, c) })

	require.NoError(t, m.LoadFromFile(configFile))

	cfg := m.GetConfig()
	assert.Equal(t, ScopeAll, cfg.LookupScope)
	assert.Equal(t, DefaultScreenConfig(), cfg.Screen, "zero screen falls back to defaults")
	assert.Equal(t, "[tuirobot] ", cfg.Log.Prefix)
	assert.Equal(t, configFile, m.ConfigPath())
	require.Len(t, seen, 1)
	assert.Equal(t, cfg, seen[0])

	cfg.LookupScope = ScopeShowing
	assert.Equal(t, ScopeAll, m.GetConfig().LookupScope, "GetConfig returns a copy")
}

func TestManager_LoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("search_order: sideways\n"), 0600))

	m := NewManager()
	err := m.LoadFromFile(configFile)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Equal(t, OrderDepth, m.GetConfig().SearchOrder, "failed loads keep the previous config")
}

func TestManager_UpdateConfig(t *testing.T) {
	m := NewManager()

	assert.Error(t, m.UpdateConfig(nil))
	assert.Error(t, m.UpdateConfig(&Config{Timeout: "x"}))

	require.NoError(t, m.UpdateConfig(&Config{Timeout: "1s"}))
	cfg := m.GetConfig()
	assert.Equal(t, "1s", cfg.Timeout)
	assert.Equal(t, "50ms", cfg.PollInterval)
	assert.Equal(t, ScopeShowing, cfg.LookupScope)
}

func TestManager_PathExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	m := NewManager()
	require.NoError(t, m.UpdateConfig(&Config{Journal: JournalConfig{Enabled: true, Path: "~/robot/journal.db"}}))
	assert.Equal(t, filepath.Join(home, "robot", "journal.db"), m.JournalPath())

	saved := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, m.SaveToFile(saved))
	assert.FileExists(t, saved)

	m.LoadFromDefaults()
	assert.Empty(t, m.ConfigPath())
	assert.Equal(t, DefaultJournalPath(), m.JournalPath())
}
