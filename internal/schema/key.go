package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the depth of a node in the schema tree.
type Level int

const (
	LevelRoot Level = iota
	LevelPanel
	LevelSection
	LevelOption
)

func (l Level) String() string {
	switch l {
	case LevelRoot:
		return "root"
	case LevelPanel:
		return "panel"
	case LevelSection:
		return "section"
	case LevelOption:
		return "option"
	}
	return "unknown"
}

// ErrMalformedKey is returned by ParseKey for keys that can never match.
var ErrMalformedKey = errors.New("malformed key")

// Key addresses a node: empty for the root, then panel, section and option.
type Key struct {
	Panel   string
	Section string
	Option  string
}

// ParseKey splits a dotted key. The empty string is the root; otherwise
// one to three non-empty segments are accepted.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, nil
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Key{}, fmt.Errorf("%w %q: at most 3 levels (panel.section.option)", ErrMalformedKey, s)
	}
	for _, p := range parts {
		if p == "" {
			return Key{}, fmt.Errorf("%w %q: empty segment", ErrMalformedKey, s)
		}
	}
	var k Key
	k.Panel = parts[0]
	if len(parts) > 1 {
		k.Section = parts[1]
	}
	if len(parts) > 2 {
		k.Option = parts[2]
	}
	return k, nil
}

// Level returns the depth the key addresses.
func (k Key) Level() Level {
	switch {
	case k.Panel == "":
		return LevelRoot
	case k.Section == "":
		return LevelPanel
	case k.Option == "":
		return LevelSection
	}
	return LevelOption
}

// Child returns the key one level below k.
func (k Key) Child(id string) Key {
	switch k.Level() {
	case LevelRoot:
		k.Panel = id
	case LevelPanel:
		k.Section = id
	default:
		k.Option = id
	}
	return k
}

// ID returns the last segment of the key, the id of the node it names.
func (k Key) ID() string {
	switch k.Level() {
	case LevelPanel:
		return k.Panel
	case LevelSection:
		return k.Section
	case LevelOption:
		return k.Option
	}
	return ""
}

func (k Key) String() string {
	switch k.Level() {
	case LevelRoot:
		return ""
	case LevelPanel:
		return k.Panel
	case LevelSection:
		return k.Panel + "." + k.Section
	}
	return k.Panel + "." + k.Section + "." + k.Option
}
