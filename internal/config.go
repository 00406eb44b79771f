package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Chat file layouts
const (
	LayoutPerChat = "per-chat"
	LayoutDaily   = "daily"
	LayoutMonthly = "monthly"
)

const (
	DefaultBaseURL   = "https://api.limitless.ai"
	DefaultStartDate = "2025-01-01"

	// MaxChatsCeiling bounds max_chats_per_sync regardless of configuration.
	MaxChatsCeiling = 200
)

// LifelogConfig controls the lifelog sync
type LifelogConfig struct {
	Folder    string `yaml:"folder"`
	StartDate string `yaml:"start_date"`
}

// ChatConfig controls the chat sync
type ChatConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Folder     string `yaml:"folder"`
	Layout     string `yaml:"layout"` // per-chat, daily, monthly
	MaxPerSync int    `yaml:"max_per_sync"`
}

// Config holds all settings for a sync run
type Config struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	VaultDir  string        `yaml:"vault_dir"`
	Timezone  string        `yaml:"timezone"`
	HistoryDB string        `yaml:"history_db"`
	Lifelogs  LifelogConfig `yaml:"lifelogs"`
	Chats     ChatConfig    `yaml:"chats"`
}

// DefaultConfig returns a config populated with defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		VaultDir: ".",
		Lifelogs: LifelogConfig{
			Folder:    "Lifelogs",
			StartDate: DefaultStartDate,
		},
		Chats: ChatConfig{
			Folder:     "Chats",
			Layout:     LayoutPerChat,
			MaxPerSync: 50,
		},
	}
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".limitless-sync.yaml"), nil
}

// LoadConfig loads configuration from a YAML file, a .env file and the
// environment. A missing config file is not an error; defaults apply.
// LIMITLESS_API_KEY always overrides the file so rotating the key never
// requires editing the config.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if key := os.Getenv("LIMITLESS_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if base := os.Getenv("LIMITLESS_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field values and clamps the chat cap into [1, 200]
func (c *Config) Validate() error {
	switch c.Chats.Layout {
	case LayoutPerChat, LayoutDaily, LayoutMonthly:
	default:
		return fmt.Errorf("invalid chat layout %q (supported: per-chat, daily, monthly)", c.Chats.Layout)
	}

	if c.Chats.MaxPerSync < 1 {
		c.Chats.MaxPerSync = 1
	} else if c.Chats.MaxPerSync > MaxChatsCeiling {
		c.Chats.MaxPerSync = MaxChatsCeiling
	}

	if _, err := time.Parse("2006-01-02", c.Lifelogs.StartDate); err != nil {
		return fmt.Errorf("invalid lifelogs start_date %q: expected YYYY-MM-DD", c.Lifelogs.StartDate)
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	return nil
}

// Location resolves the configured timezone, falling back to the host's
// local zone when unset or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		LogWarn("Unknown timezone %q, using local time", c.Timezone)
		return time.Local
	}
	return loc
}

// HistoryPath returns the sync history database path, defaulting to a
// dot-directory in the user's home.
func (c *Config) HistoryPath() (string, error) {
	if c.HistoryDB != "" {
		return c.HistoryDB, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".limitless-sync", "history.sqlite"), nil
}
