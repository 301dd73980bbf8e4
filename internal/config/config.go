package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "fridgeverify"

// Config holds all application configuration
type Config struct {
	Version  int            `toml:"version"`
	Target   TargetConfig   `toml:"target"`
	Scenario ScenarioConfig `toml:"scenario"`
	Browser  BrowserConfig  `toml:"browser"`
	Timeouts TimeoutsConfig `toml:"timeouts"`
	Artifact ArtifactConfig `toml:"artifact"`
	History  HistoryConfig  `toml:"history"`
	Watch    WatchConfig    `toml:"watch"`
	Log      LogConfig      `toml:"log"`
}

// TargetConfig locates the page under test. The dev server is not managed here.
type TargetConfig struct {
	BaseURL string `toml:"base_url"`
	Path    string `toml:"path"`
}

// ScenarioConfig holds the DOM contract of the duplicate-name scenario.
type ScenarioConfig struct {
	AddLabel        string `toml:"add_label"`
	NamePlaceholder string `toml:"name_placeholder"`
	SubmitLabel     string `toml:"submit_label"`
	DuplicateName   string `toml:"duplicate_name"`
	ExpectDialog    bool   `toml:"expect_dialog"`
	// ExpectMessage must appear in the dialog text; empty accepts any message.
	ExpectMessage string `toml:"expect_message"`
}

type BrowserConfig struct {
	Headless     bool   `toml:"headless"`
	ExecPath     string `toml:"exec_path"`
	NoSandbox    bool   `toml:"no_sandbox"`
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`
}

type TimeoutsConfig struct {
	Navigation Duration `toml:"navigation"`
	Action     Duration `toml:"action"`
	Settle     Duration `toml:"settle"`
	Run        Duration `toml:"run"`
}

type ArtifactConfig struct {
	ScreenshotPath string `toml:"screenshot_path"`
	FullPage       bool   `toml:"full_page"`
}

type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path"` // empty means <cache dir>/history.db
}

type WatchConfig struct {
	Schedule string `toml:"schedule"`
	Timezone string `toml:"timezone"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// D wraps a time.Duration.
func D(d time.Duration) Duration { return Duration{d} }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the config for the duplicate "Main Fridge" check against the local dev server
func Default() *Config {
	return &Config{
		Version: 1,
		Target: TargetConfig{
			BaseURL: "http://localhost:5173",
			Path:    "/test-fridge-list",
		},
		Scenario: ScenarioConfig{
			AddLabel:        "새 냉장고 추가",
			NamePlaceholder: "예: 김치냉장고",
			SubmitLabel:     "추가하기",
			DuplicateName:   "Main Fridge",
			ExpectDialog:    true,
			ExpectMessage:   "이미 존재하는 이름입니다",
		},
		Browser: BrowserConfig{
			Headless:     true,
			WindowWidth:  1280,
			WindowHeight: 720,
		},
		Timeouts: TimeoutsConfig{
			Navigation: D(30 * time.Second),
			Action:     D(10 * time.Second),
			Settle:     D(time.Second),
			Run:        D(2 * time.Minute),
		},
		Artifact: ArtifactConfig{
			ScreenshotPath: filepath.Join("verification", "duplicate_warning_correct.png"),
			FullPage:       true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Watch: WatchConfig{
			Schedule: "@every 10m",
			Timezone: "Local",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// TargetURL joins the base URL and page path.
func (c *Config) TargetURL() string {
	base := strings.TrimRight(c.Target.BaseURL, "/")
	path := c.Target.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Validate reports the first problem that would make a run meaningless.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Target.BaseURL)
	if err != nil {
		return fmt.Errorf("target.base_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("target.base_url %q must be an absolute URL", c.Target.BaseURL)
	}

	for name, v := range map[string]string{
		"scenario.add_label":        c.Scenario.AddLabel,
		"scenario.name_placeholder": c.Scenario.NamePlaceholder,
		"scenario.submit_label":     c.Scenario.SubmitLabel,
		"scenario.duplicate_name":   c.Scenario.DuplicateName,
		"artifact.screenshot_path":  c.Artifact.ScreenshotPath,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}

	for name, d := range map[string]Duration{
		"timeouts.navigation": c.Timeouts.Navigation,
		"timeouts.action":     c.Timeouts.Action,
		"timeouts.settle":     c.Timeouts.Settle,
		"timeouts.run":        c.Timeouts.Run,
	} {
		if d.Duration <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	return nil
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the platform-appropriate cache directory
func CacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, appName), nil
}

// HistoryPath resolves the run history database location.
func (c *Config) HistoryPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Load reads config from path, layered over Default so that keys missing
// from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config at path (or the default path when empty).
// A missing file yields defaults, which are written out when writeDefault is set.
func LoadOrDefault(path string, writeDefault bool) (*Config, string, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return Default(), "", err
		}
		path = p
	}

	cfg, err := Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, path, err
	}

	cfg = Default()
	if writeDefault {
		if err := cfg.Save(path); err != nil {
			return cfg, path, fmt.Errorf("could not save default config: %w", err)
		}
	}
	return cfg, path, nil
}

// Save writes config to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
