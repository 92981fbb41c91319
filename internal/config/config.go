package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default locations of the files the engine reads.
const (
	SystemConfigPath  = "/etc/ynh/settings.toml"
	DefaultSchemaPath = "/usr/share/yunohost/config_global.toml"
	DefaultStorePath  = "/etc/yunohost/settings.yml"
	DefaultLocalesDir = "/usr/share/yunohost/locales"
	DefaultFormat     = "auto"
)

// Environment variables that override file settings.
const (
	EnvSchemaPath = "YNH_SETTINGS_SCHEMA"
	EnvStorePath  = "YNH_SETTINGS_STORE"
	EnvLocalesDir = "YNH_LOCALES_DIR"
	EnvLocale     = "YNH_LOCALE"
)

// Config holds the ynh engine configuration
type Config struct {
	SchemaPath    string `toml:"schema_path"`
	StorePath     string `toml:"store_path"`
	LocalesDir    string `toml:"locales_dir"`
	Locale        string `toml:"locale"`         // empty: taken from the environment
	DefaultFormat string `toml:"default_format"` // "auto", "plain", "json" or "yaml"
}

// Default returns the default configuration
func Default() Config {
	return Config{
		SchemaPath:    DefaultSchemaPath,
		StorePath:     DefaultStorePath,
		LocalesDir:    DefaultLocalesDir,
		DefaultFormat: DefaultFormat,
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// ResolvePath validates a path given outside a config file, such as a
// flag value, and expands a leading ~.
func ResolvePath(path, fieldName string) (string, error) {
	if err := ValidatePath(path, fieldName); err != nil {
		return "", err
	}
	return expandPath(path)
}

// Load reads the system config file at path (SystemConfigPath when empty).
// Returns Default() if the file doesn't exist (no error).
// Returns error only if the file exists but is invalid.
func Load(path string) (Config, error) {
	if path == "" {
		path = SystemConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.finish(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadAll builds the effective configuration: the system file, then the
// user overlay, then environment variables.
func LoadAll(path string, getenv func(string) string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	userPath, err := UserConfigPath(getenv)
	if err == nil {
		local, err := LoadLocal(userPath)
		if err != nil {
			return nil, err
		}
		merged := MergeLocal(&cfg, local)
		cfg = *merged
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides settings from YNH_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	for _, e := range []struct {
		name  string
		field *string
	}{
		{EnvSchemaPath, &c.SchemaPath},
		{EnvStorePath, &c.StorePath},
		{EnvLocalesDir, &c.LocalesDir},
		{EnvLocale, &c.Locale},
	} {
		if v := getenv(e.name); v != "" {
			*e.field = v
		}
	}
	if err := c.finish(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// finish validates the settings, expands ~ in paths and fills in defaults
// for empty values.
func (c *Config) finish() error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, p := range []*string{&c.SchemaPath, &c.StorePath, &c.LocalesDir} {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	def := Default()
	if c.SchemaPath == "" {
		c.SchemaPath = def.SchemaPath
	}
	if c.StorePath == "" {
		c.StorePath = def.StorePath
	}
	if c.LocalesDir == "" {
		c.LocalesDir = def.LocalesDir
	}
	if c.DefaultFormat == "" {
		c.DefaultFormat = def.DefaultFormat
	}
	return nil
}
