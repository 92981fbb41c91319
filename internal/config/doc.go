// Package config handles loading and validation of ynh configuration.
//
// Configuration is read from /etc/ynh/settings.toml, overlaid by the
// per-user file $XDG_CONFIG_HOME/ynh/settings.toml, with environment
// variable overrides on top.
//
// # Configuration Sources (highest priority first)
//
//   - Command line flags (--schema, --store, --locale)
//   - YNH_SETTINGS_SCHEMA, YNH_SETTINGS_STORE, YNH_LOCALES_DIR, YNH_LOCALE
//   - Per-user config file
//   - System config file
//   - Default values
//
// # Key Settings
//
//   - schema_path: settings schema (default /usr/share/yunohost/config_global.toml)
//   - store_path: override store (default /etc/yunohost/settings.yml)
//   - locales_dir: directory of <locale>.json message catalogs
//   - locale: label language; empty means LC_ALL, LC_MESSAGES or LANG
//   - default_format: "auto", "plain", "json" or "yaml"
//
// # Path Validation
//
// Paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
