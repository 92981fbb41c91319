package schema

import "strings"

// Translation is the text of a label in one locale.
type Translation struct {
	Locale string
	Text   string
	// Plain marks a bare string given where a locale table is allowed.
	Plain bool
}

// Text is a label given inline in the schema, one entry per locale in
// declaration order. A plain string in the schema becomes a single "en"
// entry marked Plain.
type Text []Translation

// English wraps s as an English-only text.
func English(s string) Text {
	return Text{{Locale: "en", Text: s}}
}

// PlainText wraps a bare schema string. Option labels given this way rank
// below catalog entries.
func PlainText(s string) Text {
	return Text{{Locale: "en", Text: s, Plain: true}}
}

// IsPlain reports whether t came from a bare string rather than a locale
// table.
func (t Text) IsPlain() bool {
	return len(t) == 1 && t[0].Plain
}

// Lookup picks the entry for locale, then "en", then the first entry.
// Locales match on their language when no exact entry exists.
func (t Text) Lookup(locale string) (string, bool) {
	if len(t) == 0 {
		return "", false
	}
	if s, ok := t.get(locale); ok {
		return s, true
	}
	if base, _, found := strings.Cut(locale, "_"); found {
		if s, ok := t.get(base); ok {
			return s, true
		}
	}
	if s, ok := t.get("en"); ok {
		return s, true
	}
	return t[0].Text, true
}

func (t Text) get(locale string) (string, bool) {
	for _, tr := range t {
		if tr.Locale == locale {
			return tr.Text, true
		}
	}
	return "", false
}

// capitalize upper-cases the first letter, the default panel name.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
