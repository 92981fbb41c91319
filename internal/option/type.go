package option

import (
	"fmt"
	"slices"
)

// Type is the declared type of an option.
type Type string

// Option types understood by the engine.
const (
	TypeBoolean  Type = "boolean"
	TypeString   Type = "string"
	TypeText     Type = "text"
	TypeSelect   Type = "select"
	TypeNumber   Type = "number"
	TypePath     Type = "path"
	TypePassword Type = "password"
	TypeTags     Type = "tags"
	TypeEmail    Type = "email"
	TypeURL      Type = "url"

	// Display-only types never carry a value.
	TypeAlert       Type = "alert"
	TypeMarkdown    Type = "markdown"
	TypeDisplayText Type = "display_text"
	TypeButton      Type = "button"
)

// Types lists every valid type in declaration order.
var Types = []Type{
	TypeBoolean, TypeString, TypeText, TypeSelect, TypeNumber, TypePath,
	TypePassword, TypeTags, TypeEmail, TypeURL,
	TypeAlert, TypeMarkdown, TypeDisplayText, TypeButton,
}

// ParseType validates a type name read from a schema.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !slices.Contains(Types, t) {
		return "", fmt.Errorf("unknown option type %q", s)
	}
	return t, nil
}

// DisplayOnly reports whether options of this type hold no value.
func (t Type) DisplayOnly() bool {
	switch t {
	case TypeAlert, TypeMarkdown, TypeDisplayText, TypeButton:
		return true
	}
	return false
}

// Secret reports whether values of this type are redacted in listings.
func (t Type) Secret() bool {
	return t == TypePassword
}

// stringLike reports whether the type stores a single string value.
func (t Type) stringLike() bool {
	switch t {
	case TypeString, TypeText, TypeSelect, TypePath, TypePassword, TypeEmail, TypeURL:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}
