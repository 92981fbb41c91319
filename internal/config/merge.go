package config

// MergeLocal merges a per-user config into the system config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	merged := *global

	// Simple field replace for non-zero values
	if local.SchemaPath != "" {
		merged.SchemaPath = local.SchemaPath
	}
	if local.StorePath != "" {
		merged.StorePath = local.StorePath
	}
	if local.LocalesDir != "" {
		merged.LocalesDir = local.LocalesDir
	}
	if local.Locale != "" {
		merged.Locale = local.Locale
	}
	if local.DefaultFormat != "" {
		merged.DefaultFormat = local.DefaultFormat
	}

	return &merged
}
