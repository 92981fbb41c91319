package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfig holds per-user overrides from $XDG_CONFIG_HOME/ynh/settings.toml.
// Empty strings indicate "not set" (inherit from the system config).
type LocalConfig struct {
	SchemaPath    string `toml:"schema_path"`
	StorePath     string `toml:"store_path"`
	LocalesDir    string `toml:"locales_dir"`
	Locale        string `toml:"locale"`
	DefaultFormat string `toml:"default_format"`
}

// UserConfigPath returns the per-user config file location.
func UserConfigPath(getenv func(string) string) (string, error) {
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "ynh", "settings.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ynh", "settings.toml"), nil
}

// LoadLocal reads a per-user config file.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(path string) (*LocalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user config %s: %w", path, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse user config %s: %w", path, err)
	}

	for _, f := range []struct{ value, name string }{
		{local.SchemaPath, "schema_path"},
		{local.StorePath, "store_path"},
		{local.LocalesDir, "locales_dir"},
	} {
		if err := ValidatePath(f.value, f.name); err != nil {
			return nil, fmt.Errorf("%w in %s", err, path)
		}
	}
	if err := validateEnum(local.DefaultFormat, "default_format", ValidFormats); err != nil {
		return nil, fmt.Errorf("%w in %s", err, path)
	}

	return &local, nil
}
