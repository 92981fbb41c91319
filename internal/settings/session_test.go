package settings

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/ynh/internal/option"
	"github.com/raphi011/ynh/internal/schema"
	"github.com/raphi011/ynh/internal/store"
)

func loadSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.LoadFile(context.Background(), filepath.Join("..", "schema", "testdata", "global.toml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return s
}

func overrides(t *testing.T, doc string) *store.Overrides {
	t.Helper()
	o, err := store.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return o
}

func newSession(t *testing.T, doc string) *Session {
	t.Helper()
	sess, err := NewSession(context.Background(), loadSchema(t), overrides(t, doc), nil, "")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return sess
}

func TestResolve_OptionValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store string
		key   string
		want  option.Value
	}{
		{"default", "", "security.webadmin.webadmin_allowlist_enabled", option.Bool(false)},
		{"override", "security.webadmin.webadmin_allowlist_enabled: true", "security.webadmin.webadmin_allowlist_enabled", option.Bool(true)},
		{"bare id override", "ssh_port: 2222", "security.ssh.ssh_port", option.Int(2222)},
		{"legacy override", "smtp.relay.port: 2525", "email.smtp.smtp_relay_port", option.Int(2525)},
		{"legacy query", "", "security.ssh.port", option.Int(22)},
		{"string stays literal", "smtp_relay_user: '0123'", "email.smtp.smtp_relay_user", option.String("0123")},
		{"stringy bool", "pop3_enabled: 'True'", "email.pop3.pop3_enabled", option.Bool(true)},
		{"tags", "webadmin_allowlist: [10.0.0.1, 10.0.0.2]", "security.webadmin.webadmin_allowlist", option.List{"10.0.0.1", "10.0.0.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sess := newSession(t, tt.store)
			n, err := sess.Resolve(tt.key)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if n.Level() != schema.LevelOption {
				t.Fatalf("Level() = %v, want option", n.Level())
			}
			if !option.Equal(n.Value, tt.want) {
				t.Errorf("Value = %#v, want %#v", n.Value, tt.want)
			}
		})
	}
}

func TestResolve_Subtree(t *testing.T) {
	t.Parallel()

	sess := newSession(t, "")

	root, err := sess.Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if root.Level() != schema.LevelRoot || len(root.Children) != 3 {
		t.Fatalf("root: level %v, %d children", root.Level(), len(root.Children))
	}

	sec, err := sess.Resolve("security.ssh")
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, c := range sec.Children {
		ids = append(ids, c.Key.String())
	}
	want := []string{"security.ssh.ssh_compatibility", "security.ssh.ssh_port", "security.ssh.ssh_password_authentication"}
	if !slices.Equal(ids, want) {
		t.Errorf("children = %v, want %v", ids, want)
	}

	if got := len(root.Options()); got != 21 {
		t.Errorf("Options() = %d, want 21", got)
	}
}

func TestResolve_Visibility(t *testing.T) {
	t.Parallel()

	hidden := newSession(t, "")
	n, err := hidden.Resolve("security.webadmin.webadmin_allowlist")
	if err != nil {
		t.Fatal(err)
	}
	if n.Visible {
		t.Error("allowlist should be hidden while the allowlist is disabled")
	}

	// An override flips visibility of a sibling.
	shown := newSession(t, "webadmin_allowlist_enabled: true")
	n, err = shown.Resolve("security.webadmin.webadmin_allowlist")
	if err != nil {
		t.Fatal(err)
	}
	if !n.Visible {
		t.Error("allowlist should be visible once enabled")
	}
}

func TestResolve_HiddenSection(t *testing.T) {
	t.Parallel()

	s, err := schema.Build(schema.Version, "",
		&schema.Panel{ID: "email", Sections: []*schema.Section{
			{ID: "relay", Visible: schema.Literal(false), Options: []*schema.Option{
				{ID: "host", Type: option.TypeString, Optional: true, Default: option.String("")},
			}},
		}},
	)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := NewSession(context.Background(), s, nil, nil, "")
	if err != nil {
		t.Fatal(err)
	}

	n, err := sess.Resolve("email.relay.host")
	if err != nil {
		t.Fatal(err)
	}
	if n.Visible {
		t.Error("option under a hidden section must be hidden")
	}
}

func TestResolve_UnknownKey(t *testing.T) {
	t.Parallel()

	sess := newSession(t, "")

	tests := []struct {
		key        string
		suggestion string
	}{
		{"security.nonexistent", ""},
		{"security.ssh.sshport", "security.ssh.ssh_port"},
		{"a.b.c.d", ""},
		{"security..ssh", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			n, err := sess.Resolve(tt.key)
			if n != nil {
				t.Error("Resolve() returned a node with an error")
			}
			var uk *UnknownKeyError
			if !errors.As(err, &uk) {
				t.Fatalf("Resolve() error = %v, want *UnknownKeyError", err)
			}
			if uk.Key() != tt.key {
				t.Errorf("Key() = %q, want %q", uk.Key(), tt.key)
			}
			if uk.Kind() != KindUnknownKey {
				t.Errorf("Kind() = %q", uk.Kind())
			}
			if !strings.Contains(uk.Error(), tt.key) {
				t.Errorf("Error() = %q, want to echo the key", uk.Error())
			}
			if tt.suggestion != "" && !slices.Contains(uk.Suggestions, tt.suggestion) {
				t.Errorf("Suggestions = %v, want %q", uk.Suggestions, tt.suggestion)
			}
		})
	}
}

func TestNewSession_InvalidOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store string
		kind  string
		key   string
	}{
		{"not a choice", "security.ssh.ssh_compatibility: ancient", option.KindConstraintViolation, "security.ssh.ssh_compatibility"},
		{"out of range", "security.ssh.ssh_port: 70000", option.KindConstraintViolation, "security.ssh.ssh_port"},
		{"wrong type", "security.ssh.ssh_port: many", option.KindTypeMismatch, "security.ssh.ssh_port"},
		// Hidden options are validated too.
		{"hidden option", "security.webadmin.webadmin_allowlist: [[nested]]", option.KindTypeMismatch, "security.webadmin.webadmin_allowlist"},
		{"unknown key", "security.ssh.colour: blue", store.KindPersistenceError, "security.ssh.colour"},
		{"unknown bare id", "colour: blue", store.KindPersistenceError, "colour"},
		{"section key", "security.ssh: 1", store.KindPersistenceError, "security.ssh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSession(context.Background(), loadSchema(t), overrides(t, tt.store), nil, "")
			if err == nil {
				t.Fatal("NewSession() expected error")
			}
			var ke interface {
				Kind() string
				Key() string
			}
			if !errors.As(err, &ke) {
				t.Fatalf("error %T does not carry a kind", err)
			}
			if ke.Kind() != tt.kind {
				t.Errorf("Kind() = %q, want %q", ke.Kind(), tt.kind)
			}
			if ke.Key() != tt.key {
				t.Errorf("Key() = %q, want %q", ke.Key(), tt.key)
			}
		})
	}
}

func TestTranslateLegacyKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"security.ssh.port":                   "security.ssh.ssh_port",
		"pop3.enabled":                        "email.pop3.pop3_enabled",
		"security.webadmin.allowlist.enabled": "security.webadmin.webadmin_allowlist_enabled",
		"security.ssh.ssh_port":               "security.ssh.ssh_port",
		"":                                    "",
	}
	for in, want := range tests {
		if got := TranslateLegacyKey(in); got != want {
			t.Errorf("TranslateLegacyKey(%q) = %q, want %q", in, got, want)
		}
	}
}
