package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadLocal_NoFile(t *testing.T) {
	t.Parallel()

	local, err := LoadLocal(filepath.Join(t.TempDir(), "settings.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local != nil {
		t.Fatalf("expected nil, got %+v", local)
	}
}

func TestLoadLocal_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"relative locales dir", `locales_dir = "locales"`, "locales_dir must be absolute"},
		{"bad format", `default_format = "table"`, `invalid default_format "table"`},
		{"bad toml", `[`, "failed to parse user config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "settings.toml")
			writeFile(t, path, tt.content)

			_, err := LoadLocal(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("LoadLocal() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestMergeLocal(t *testing.T) {
	t.Parallel()

	global := Default()

	if got := MergeLocal(&global, nil); got != &global {
		t.Error("MergeLocal(nil) should return global unchanged")
	}

	merged := MergeLocal(&global, &LocalConfig{Locale: "fr", DefaultFormat: "json"})
	if merged.Locale != "fr" || merged.DefaultFormat != "json" {
		t.Errorf("merged = %+v", merged)
	}
	if merged.StorePath != DefaultStorePath {
		t.Errorf("unset fields should be inherited, StorePath = %q", merged.StorePath)
	}
	if global.Locale != "" {
		t.Error("MergeLocal mutated the global config")
	}
}

func TestUserConfigPath(t *testing.T) {
	t.Parallel()

	got, err := UserConfigPath(env(map[string]string{"XDG_CONFIG_HOME": "/xdg"}))
	if err != nil {
		t.Fatal(err)
	}
	if got != "/xdg/ynh/settings.toml" {
		t.Errorf("UserConfigPath() = %q", got)
	}
}
