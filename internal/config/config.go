// Package config handles application configuration
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config.sample.yaml
var sampleConfig string

// GetSampleConfig returns the embedded sample configuration content
func GetSampleConfig() string {
	return sampleConfig
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string       `yaml:"backend"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
	File    FileConfig   `yaml:"file"`
}

// SQLiteConfig holds SQLite backend configuration
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// FileConfig holds file backend configuration
type FileConfig struct {
	Dir string `yaml:"dir"`
}

// LegacyImportConfig points at the old file-based records for the
// one-time import.
type LegacyImportConfig struct {
	TodoPath     string `yaml:"todo_path"`
	ShoppingPath string `yaml:"shopping_path"`
}

// AssistantConfig holds assistant settings. Provider overrides the
// ai_provider value stored in the app settings when non-empty.
type AssistantConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

// SuggestionsConfig holds autocomplete settings
type SuggestionsConfig struct {
	DisplayLimit int `yaml:"display_limit"`
}

// Config represents the application configuration
type Config struct {
	Storage      StorageConfig      `yaml:"storage"`
	LegacyImport LegacyImportConfig `yaml:"legacy_import"`
	Assistant    AssistantConfig    `yaml:"assistant"`
	Suggestions  SuggestionsConfig  `yaml:"suggestions"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			SQLite: SQLiteConfig{
				Path: filepath.Join(GetDataDir(), "listy.db"),
			},
			File: FileConfig{
				Dir: filepath.Join(GetDataDir(), "data"),
			},
		},
		Suggestions: SuggestionsConfig{
			DisplayLimit: 5,
		},
	}
}

// Load loads configuration from the specified path, or the default XDG path if empty.
// If the config file doesn't exist, it creates one with defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = filepath.Join(GetConfigDir(), "config.yaml")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in config file: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults fills unset fields so a sparse config file behaves like
// the default one.
func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = filepath.Join(GetDataDir(), "listy.db")
	} else {
		c.Storage.SQLite.Path = ExpandPath(c.Storage.SQLite.Path)
	}
	if c.Storage.File.Dir == "" {
		c.Storage.File.Dir = filepath.Join(GetDataDir(), "data")
	} else {
		c.Storage.File.Dir = ExpandPath(c.Storage.File.Dir)
	}
	if c.LegacyImport.TodoPath != "" {
		c.LegacyImport.TodoPath = ExpandPath(c.LegacyImport.TodoPath)
	}
	if c.LegacyImport.ShoppingPath != "" {
		c.LegacyImport.ShoppingPath = ExpandPath(c.LegacyImport.ShoppingPath)
	}
	if c.Suggestions.DisplayLimit <= 0 {
		c.Suggestions.DisplayLimit = 5
	}
}

// save writes the configuration to the specified path
func (c *Config) save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Use the embedded sample config which includes all documentation and comments
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("unknown storage backend: %q (must be 'sqlite', 'file' or 'memory')", c.Storage.Backend)
	}

	if c.Assistant.Provider != "" {
		switch c.Assistant.Provider {
		case "gemini", "openai", "openrouter":
		default:
			return fmt.Errorf("unknown assistant provider: %q (must be 'gemini', 'openai' or 'openrouter')", c.Assistant.Provider)
		}
	}

	if c.Suggestions.DisplayLimit < 0 {
		return fmt.Errorf("suggestions.display_limit must not be negative")
	}

	return nil
}

// getXDGDir returns a directory path following XDG spec.
// envVar is the XDG environment variable (e.g., "XDG_CONFIG_HOME").
// fallbackPath is the relative path from home (e.g., ".config").
func getXDGDir(envVar, fallbackPath string) string {
	if xdgDir := os.Getenv(envVar); xdgDir != "" {
		return filepath.Join(xdgDir, "listy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", fallbackPath, "listy")
	}
	return filepath.Join(home, fallbackPath, "listy")
}

// GetConfigDir returns the configuration directory following XDG spec
func GetConfigDir() string {
	return getXDGDir("XDG_CONFIG_HOME", ".config")
}

// GetDataDir returns the data directory following XDG spec
func GetDataDir() string {
	return getXDGDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
