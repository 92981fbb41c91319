package output

import (
	"errors"
	"slices"
	"testing"

	"github.com/raphi011/ynh/internal/document"
)

func panelDoc() *document.Map {
	ssh := document.New()
	ssh.Set("ssh_port", int64(22))
	ssh.Set("ssh_compatibility", "modern")

	webadmin := document.New()
	webadmin.Set("webadmin_allowlist_enabled", true)
	webadmin.Set("webadmin_allowlist", []string{"10.0.0.2", "10.0.0.1"})

	security := document.New()
	security.Set("webadmin", webadmin)
	security.Set("ssh", ssh)
	return security
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		doc    any
		format Format
		opts   Options
		want   string
	}{
		{
			name:   "json keeps order",
			doc:    panelDoc(),
			format: FormatJSON,
			want:   `{"webadmin":{"webadmin_allowlist_enabled":true,"webadmin_allowlist":["10.0.0.2","10.0.0.1"]},"ssh":{"ssh_port":22,"ssh_compatibility":"modern"}}`,
		},
		{
			name:   "json canonical",
			doc:    panelDoc(),
			format: FormatJSON,
			opts:   Options{Canonical: true},
			want:   `{"ssh":{"ssh_compatibility":"modern","ssh_port":22},"webadmin":{"webadmin_allowlist":["10.0.0.1","10.0.0.2"],"webadmin_allowlist_enabled":true}}`,
		},
		{
			name:   "json indented",
			doc:    int64(22),
			format: FormatJSON,
			opts:   Options{Indent: true},
			want:   "22",
		},
		{
			name:   "yaml keeps order",
			doc:    panelDoc(),
			format: FormatYAML,
			want: `webadmin:
  webadmin_allowlist_enabled: true
  webadmin_allowlist:
    - 10.0.0.2
    - 10.0.0.1
ssh:
  ssh_port: 22
  ssh_compatibility: modern
`,
		},
		{
			name:   "yaml quotes strings that look like other types",
			doc:    []any{"true", "0123", "", nil},
			format: FormatYAML,
			want: `- "true"
- "0123"
- ""
- null
`,
		},
		{
			name: "json leaves html alone",
			doc: func() any {
				m := document.New()
				m.Set("help", `Use <a href="x">docs</a> & more`)
				return m
			}(),
			format: FormatJSON,
			want:   `{"help":"Use <a href=\"x\">docs</a> & more"}`,
		},
		{
			name: "indented json leaves html alone",
			doc: func() any {
				m := document.New()
				m.Set("help", "<b>bold</b>")
				return []any{m}
			}(),
			format: FormatJSON,
			opts:   Options{Indent: true},
			want:   "[\n  {\n    \"help\": \"<b>bold</b>\"\n  }\n]",
		},
		{
			name: "yaml floats",
			doc: func() any {
				m := document.New()
				m.Set("step", 0.5)
				m.Set("scale", 1.0)
				return m
			}(),
			format: FormatYAML,
			want:   "step: 0.5\nscale: 1.0\n",
		},
		{
			name:   "plain float",
			doc:    0.25,
			format: FormatPlain,
			want:   "0.25",
		},
		{
			name:   "plain bool",
			doc:    false,
			format: FormatPlain,
			want:   "false",
		},
		{
			name:   "plain list",
			doc:    []string{"a", "b"},
			format: FormatPlain,
			want:   "a,b",
		},
		{
			name:   "plain null",
			doc:    nil,
			format: FormatPlain,
			want:   "",
		},
		{
			name: "plain collapses single entries",
			doc: func() any {
				inner := document.New()
				inner.Set("pop3_enabled", true)
				outer := document.New()
				outer.Set("pop3", inner)
				return outer
			}(),
			format: FormatPlain,
			want:   "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Serialize(tt.doc, tt.format, tt.opts)
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Serialize() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestSerialize_FormatMismatch(t *testing.T) {
	t.Parallel()

	_, err := Serialize(panelDoc(), FormatPlain, Options{})
	var fm *FormatMismatch
	if !errors.As(err, &fm) {
		t.Fatalf("Serialize() error = %v, want *FormatMismatch", err)
	}
	if fm.Kind() != KindFormatMismatch || fm.Entries != 2 {
		t.Errorf("got kind %q with %d entries", fm.Kind(), fm.Entries)
	}
}

func TestCanonical_SortsDocumentsByID(t *testing.T) {
	t.Parallel()

	item := func(id string, values ...any) *document.Map {
		m := document.New()
		m.Set("id", id)
		m.Set("values", values)
		return m
	}
	doc := []any{item("ssh", int64(10), int64(9), int64(100)), item("nginx", "b", "a")}

	got := Canonical(doc).([]any)
	var ids []string
	for _, d := range got {
		id, _ := d.(*document.Map).Get("id")
		ids = append(ids, id.(string))
	}
	if !slices.Equal(ids, []string{"nginx", "ssh"}) {
		t.Errorf("ids = %v", ids)
	}

	// Integers sort numerically, not by their text.
	values, _ := got[1].(*document.Map).Get("values")
	if !slices.Equal(values.([]any), []any{int64(9), int64(10), int64(100)}) {
		t.Errorf("values = %v", values)
	}

	// The input is left untouched.
	first, _ := doc[0].(*document.Map).Get("id")
	if first != "ssh" {
		t.Error("Canonical() modified its input")
	}
}

func TestAuto(t *testing.T) {
	t.Parallel()

	if got := Auto("modern"); got != FormatPlain {
		t.Errorf("Auto(scalar) = %v", got)
	}
	if got := Auto(panelDoc()); got != FormatYAML {
		t.Errorf("Auto(mapping) = %v", got)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		if got, err := ParseFormat(string(f)); err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %v, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) expected error")
	}
}
