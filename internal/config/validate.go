package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidFormats are the accepted default_format values.
var ValidFormats = []string{"auto", "plain", "json", "yaml"}

// Validate checks paths and enum fields.
func (c *Config) Validate() error {
	for _, f := range []struct{ value, name string }{
		{c.SchemaPath, "schema_path"},
		{c.StorePath, "store_path"},
		{c.LocalesDir, "locales_dir"},
	} {
		if err := ValidatePath(f.value, f.name); err != nil {
			return err
		}
	}
	return validateEnum(c.DefaultFormat, "default_format", ValidFormats)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
