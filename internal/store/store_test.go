package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/ynh/internal/option"
)

func writeStore(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	o, err := Load(context.Background(), filepath.Join(t.TempDir(), "settings.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if o.Len() != 0 {
		t.Errorf("Len() = %d, want 0", o.Len())
	}
}

func TestLoad_KeepsOrderAndText(t *testing.T) {
	t.Parallel()

	path := writeStore(t, `
security.webadmin.webadmin_allowlist_enabled: true
security.ssh.ssh_port: 2222
email.smtp.smtp_relay_port: 587
security.webadmin.webadmin_allowlist:
  - 10.0.0.1
  - 192.168.1.0/24
misc.portal.portal_theme: ~
`)

	o, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantKeys := []string{
		"security.webadmin.webadmin_allowlist_enabled",
		"security.ssh.ssh_port",
		"email.smtp.smtp_relay_port",
		"security.webadmin.webadmin_allowlist",
		"misc.portal.portal_theme",
	}
	if got := o.Keys(); !slices.Equal(got, wantKeys) {
		t.Errorf("Keys() = %v, want %v", got, wantKeys)
	}

	tests := []struct {
		key  string
		kind option.RawKind
		text string
	}{
		{"security.webadmin.webadmin_allowlist_enabled", option.RawBool, "true"},
		{"security.ssh.ssh_port", option.RawInt, "2222"},
		{"email.smtp.smtp_relay_port", option.RawInt, "587"},
		{"misc.portal.portal_theme", option.RawNull, ""},
	}
	for _, tt := range tests {
		raw, ok := o.Get(tt.key)
		if !ok {
			t.Errorf("Get(%q) missing", tt.key)
			continue
		}
		if raw.Kind != tt.kind || raw.Text != tt.text {
			t.Errorf("Get(%q) = %v %q, want %v %q", tt.key, raw.Kind, raw.Text, tt.kind, tt.text)
		}
	}

	list, _ := o.Get("security.webadmin.webadmin_allowlist")
	if list.Kind != option.RawSeq || len(list.Items) != 2 || list.Items[1].Text != "192.168.1.0/24" {
		t.Errorf("allowlist = %+v", list)
	}
}

func TestLoad_FlattensNestedMappings(t *testing.T) {
	t.Parallel()

	path := writeStore(t, `
security:
  ssh:
    ssh_port: 2222
  nginx.nginx_redirect_to_https: false
`)

	o, err := Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"security.ssh.ssh_port", "security.nginx.nginx_redirect_to_https"}
	if got := o.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"malformed yaml", "a: [1, 2\n", "failed to parse"},
		{"not a mapping", "- a\n- b\n", "expected a mapping"},
		{"nested list of mappings", "a.b.c:\n  - x: 1\n", "expected a scalar or a list"},
		{"flattened duplicate", "a.b.c: 1\na:\n  b:\n    c: 2\n", "duplicate key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeStore(t, tt.content)
			_, err := Load(context.Background(), path)

			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("Load() error = %v, want *Error", err)
			}
			if se.Kind() != KindPersistenceError {
				t.Errorf("Kind() = %q", se.Kind())
			}
			if se.Path != path {
				t.Errorf("Path = %q, want %q", se.Path, path)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad_Unreadable(t *testing.T) {
	t.Parallel()

	// A directory in place of the file cannot be read.
	path := t.TempDir()
	_, err := Load(context.Background(), path)
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("Load() error = %v, want *Error", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "settings.yml")

	o := New()
	o.Set("security.ssh.ssh_port", option.Scalar(option.RawInt, "2222"))
	o.Set("email.smtp.smtp_relay_user", option.Scalar(option.RawString, "0123"))
	o.Set("security.webadmin.webadmin_allowlist", option.Seq(option.Scalar(option.RawString, "10.0.0.1")))
	o.Set("security.webadmin.webadmin_allowlist_enabled", option.Scalar(option.RawBool, "true"))
	o.Set("misc.portal.portal_theme", option.Raw{Kind: option.RawNull})

	if err := Save(path, o); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(loaded.Keys(), o.Keys()) {
		t.Errorf("Keys() = %v, want %v", loaded.Keys(), o.Keys())
	}

	// A numeric-looking string must come back as a string.
	user, _ := loaded.Get("email.smtp.smtp_relay_user")
	if user.Kind != option.RawString || user.Text != "0123" {
		t.Errorf("relay user = %v %q, want string \"0123\"", user.Kind, user.Text)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSave_Overwrites(t *testing.T) {
	t.Parallel()

	path := writeStore(t, "a.b.c: 1\n")

	o := New()
	o.Set("a.b.d", option.Scalar(option.RawString, "x"))
	if err := Save(path, o); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.Keys(); !slices.Equal(got, []string{"a.b.d"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestOverrides_SetKeepsPosition(t *testing.T) {
	t.Parallel()

	o := New()
	o.Set("a", option.Scalar(option.RawInt, "1"))
	o.Set("b", option.Scalar(option.RawInt, "2"))
	o.Set("a", option.Scalar(option.RawInt, "3"))

	if got := o.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v", got)
	}
	if raw, _ := o.Get("a"); raw.Text != "3" {
		t.Errorf("Get(a) = %q", raw.Text)
	}
}
