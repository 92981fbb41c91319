package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/raphi011/ynh/internal/document"
	"github.com/raphi011/ynh/internal/settings"
)

func TestWithPrinter_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		p := FromContext(WithPrinter(context.Background(), &buf))
		p.Println("x")
		if buf.String() != "x\n" {
			t.Error("printer should write to the buffer passed to WithPrinter")
		}
		if p.IsTerminal() {
			t.Error("a buffer is not a terminal")
		}
	})

	t.Run("default to stdout when not set", func(t *testing.T) {
		t.Parallel()
		p := FromContext(context.Background())
		if p.w != os.Stdout {
			t.Error("printer should default to os.Stdout")
		}
	})
}

func TestPrinter_Document(t *testing.T) {
	t.Parallel()

	doc := document.New()
	doc.Set("ssh_port", int64(22))
	doc.Set("ssh_password_authentication", true)

	tests := []struct {
		name   string
		doc    any
		format Format
		want   string
	}{
		{"plain scalar", false, FormatPlain, "false\n"},
		{"auto scalar", int64(22), FormatAuto, "22\n"},
		{"auto mapping", doc, FormatAuto, "ssh_port: 22\nssh_password_authentication: true\n"},
		{"json", doc, FormatJSON, `{"ssh_port":22,"ssh_password_authentication":true}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := New(&buf).Document(tt.doc, tt.format, Options{}); err != nil {
				t.Fatalf("Document() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Document() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinter_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorObject
	}{
		{
			name: "unknown key",
			err:  &settings.UnknownKeyError{Setting: "security.nonexistent"},
			want: ErrorObject{Error: "UnknownKey", Message: `unknown setting key "security.nonexistent"`, Key: "security.nonexistent"},
		},
		{
			name: "wrapped format mismatch",
			err:  fmt.Errorf("settings get: %w", &FormatMismatch{Setting: "security", Entries: 6}),
			want: ErrorObject{Error: "FormatMismatch", Message: `settings get: "security": plain output needs a single value, got 6 entries; use --json or --yaml`, Key: "security"},
		},
		{
			name: "plain error",
			err:  fmt.Errorf("boom"),
			want: ErrorObject{Error: "Error", Message: "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := New(&buf).Error(tt.err); err != nil {
				t.Fatal(err)
			}
			var got ErrorObject
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("error object is not JSON: %v: %q", err, buf.String())
			}
			if got != tt.want {
				t.Errorf("error object = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPrinter_Println(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Println("line one")
	p.Println("count:", 42)
	want := "line one\ncount: 42\n"
	if got := buf.String(); got != want {
		t.Errorf("wrote %q, want %q", got, want)
	}
}
