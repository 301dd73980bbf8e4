package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScenario(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:5173/test-fridge-list", cfg.TargetURL())
	assert.Equal(t, "Main Fridge", cfg.Scenario.DuplicateName)
	assert.Equal(t, "새 냉장고 추가", cfg.Scenario.AddLabel)
	assert.Equal(t, "예: 김치냉장고", cfg.Scenario.NamePlaceholder)
	assert.Equal(t, "추가하기", cfg.Scenario.SubmitLabel)
	assert.Equal(t, "이미 존재하는 이름입니다", cfg.Scenario.ExpectMessage)
	assert.Equal(t, filepath.Join("verification", "duplicate_warning_correct.png"), cfg.Artifact.ScreenshotPath)
	assert.Equal(t, time.Second, cfg.Timeouts.Settle.Duration)
	assert.True(t, cfg.Browser.Headless)
	require.NoError(t, cfg.Validate())
}

func TestTargetURLJoining(t *testing.T) {
	cfg := Default()
	cfg.Target.BaseURL = "http://127.0.0.1:9999/"
	cfg.Target.Path = "test-fridge-list"
	assert.Equal(t, "http://127.0.0.1:9999/test-fridge-list", cfg.TargetURL())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Scenario.DuplicateName = "Kimchi Fridge"
	cfg.Timeouts.Navigation = D(45 * time.Second)
	cfg.Browser.Headless = false
	require.NoError(t, cfg.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `navigation = "45s"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Kimchi Fridge", loaded.Scenario.DuplicateName)
	assert.Equal(t, 45*time.Second, loaded.Timeouts.Navigation.Duration)
	assert.False(t, loaded.Browser.Headless)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[target]
base_url = "http://127.0.0.1:4000"

[timeouts]
settle = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:4000/test-fridge-list", cfg.TargetURL())
	assert.Equal(t, 250*time.Millisecond, cfg.Timeouts.Settle.Duration)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Navigation.Duration)
	assert.Equal(t, "Main Fridge", cfg.Scenario.DuplicateName)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timeouts]\nsettle = \"soon\"\n"), 0600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadOrDefaultWritesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, used, err := LoadOrDefault(path, true)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative base url", func(c *Config) { c.Target.BaseURL = "localhost:5173" }},
		{"empty add label", func(c *Config) { c.Scenario.AddLabel = " " }},
		{"empty duplicate name", func(c *Config) { c.Scenario.DuplicateName = "" }},
		{"empty screenshot path", func(c *Config) { c.Artifact.ScreenshotPath = "" }},
		{"zero settle", func(c *Config) { c.Timeouts.Settle = D(0) }},
		{"negative navigation", func(c *Config) { c.Timeouts.Navigation = D(-time.Second) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestHistoryPathOverride(t *testing.T) {
	cfg := Default()
	cfg.History.DBPath = "/tmp/runs.db"
	path, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/runs.db", path)
}
