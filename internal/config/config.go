package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all mailterm configuration.
type Config struct {
	Sync  SyncConfig  `toml:"sync"`
	UI    UIConfig    `toml:"ui"`
	Cache CacheConfig `toml:"cache"`
	Gmail GmailConfig `toml:"gmail"`
}

// GmailConfig holds Gmail OAuth credentials.
// Users can override the embedded defaults via config file or env vars.
type GmailConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// SyncConfig holds cache freshness and polling settings. Durations use
// Go duration syntax ("5m", "90s").
type SyncConfig struct {
	StaleAfter   string `toml:"stale_after"`
	PollInterval string `toml:"poll_interval"`
	PageSize     int    `toml:"page_size"`
}

// UIConfig holds TUI display settings.
type UIConfig struct {
	Theme string `toml:"theme"`
}

// CacheConfig holds local store settings.
type CacheConfig struct {
	RetentionDays int `toml:"retention_days"`
}

func defaults() Config {
	return Config{
		Sync: SyncConfig{
			StaleAfter:   "5m",
			PollInterval: "2m",
			PageSize:     25,
		},
		UI: UIConfig{
			Theme: "default",
		},
		Cache: CacheConfig{
			RetentionDays: 30,
		},
	}
}

// Load reads config from path. If path is empty or the file does not
// exist, returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// StaleAfter parses the configured staleness threshold, falling back to
// the default on a bad value.
func (c *Config) StaleAfter() time.Duration {
	return parseDuration(c.Sync.StaleAfter, 5*time.Minute)
}

// PollInterval parses the configured poll interval, falling back to the
// default on a bad value.
func (c *Config) PollInterval() time.Duration {
	return parseDuration(c.Sync.PollInterval, 2*time.Minute)
}

// Retention returns the configured cache retention as a duration.
func (c *Config) Retention() time.Duration {
	days := c.Cache.RetentionDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ConfigDir returns the mailterm config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mailterm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mailterm")
}

// DataDir returns the mailterm data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mailterm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mailterm")
}
