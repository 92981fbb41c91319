package i18n

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"en.json":    `{"global_settings_setting_ssh_port": "SSH port", "greeting": "Hello {name}"}`,
		"fr.json":    `{"global_settings_setting_ssh_port": "Port SSH"}`,
		"README.txt": `not a catalog`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if got := c.Locales(); !slices.Equal(got, []string{"en", "fr"}) {
		t.Errorf("Locales() = %v", got)
	}

	tests := []struct {
		name   string
		msgid  string
		locale string
		params map[string]string
		want   string
	}{
		{"exact locale", "global_settings_setting_ssh_port", "fr", nil, "Port SSH"},
		{"english fallback", "greeting", "fr", map[string]string{"name": "Camille"}, "Hello Camille"},
		{"unknown locale", "global_settings_setting_ssh_port", "de", nil, "SSH port"},
		{"missing message", "nope", "en", nil, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := c.Translate(tt.msgid, tt.locale, tt.params); got != tt.want {
				t.Errorf("Translate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadCatalog_MissingDir(t *testing.T) {
	t.Parallel()

	c, err := LoadCatalog(filepath.Join(t.TempDir(), "locales"))
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(c.Locales()) != 0 {
		t.Errorf("Locales() = %v, want none", c.Locales())
	}
}

func TestLoadCatalog_Malformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(dir); err == nil {
		t.Error("LoadCatalog() expected error for malformed JSON")
	}
}

func TestMatchLocale(t *testing.T) {
	t.Parallel()

	available := []string{"de", "en", "fr", "pt_BR"}

	tests := []struct {
		requested string
		want      string
	}{
		{"fr", "fr"},
		{"fr_FR.UTF-8", "fr"},
		{"pt_BR.UTF-8", "pt_BR"},
		{"ja", "en"},
		{"", "en"},
	}
	for _, tt := range tests {
		if got := MatchLocale(available, tt.requested); got != tt.want {
			t.Errorf("MatchLocale(%q) = %q, want %q", tt.requested, got, tt.want)
		}
	}

	if got := MatchLocale(nil, "fr"); got != DefaultLocale {
		t.Errorf("MatchLocale(nil) = %q", got)
	}
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	if got := Identity("msg", "fr", nil); got != "msg" {
		t.Errorf("Identity() = %q", got)
	}
}
