// Package store reads and writes the override store: a YAML file mapping
// dotted setting keys to the values an operator changed.
//
// Values stay raw (literal text plus YAML tag) until the option package
// coerces them against the schema. Every load takes a shared lock; writes
// take the lock exclusively and replace the file with an atomic rename.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/raphi011/ynh/internal/log"
	"github.com/raphi011/ynh/internal/option"
	"github.com/raphi011/ynh/internal/storage"
)

// Overrides maps dotted keys to raw values, in the order they were read
// or set.
type Overrides struct {
	keys   []string
	values map[string]option.Raw
}

// New returns an empty override set.
func New() *Overrides {
	return &Overrides{values: make(map[string]option.Raw)}
}

// Get returns the raw value stored under key.
func (o *Overrides) Get(key string) (option.Raw, bool) {
	raw, ok := o.values[key]
	return raw, ok
}

// Set stores raw under key, keeping the position of an existing key.
func (o *Overrides) Set(key string, raw option.Raw) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

// Keys returns the keys in order.
func (o *Overrides) Keys() []string {
	return slices.Clone(o.keys)
}

// Len returns the number of overrides.
func (o *Overrides) Len() int {
	return len(o.keys)
}

// Load reads the override store at path under a shared lock.
// A missing file is an empty store.
func Load(ctx context.Context, path string) (*Overrides, error) {
	l := log.FromContext(ctx)

	lock := NewFileLock(path + ".lock")
	if err := lock.RLock(); err != nil {
		// Read-only locations cannot hold a lock file; the rename on write
		// still keeps readers from seeing a partial file.
		l.Debug("reading override store without lock", "path", path, "error", err)
	} else {
		defer lock.Unlock()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.Debug("no override store, using defaults", "path", path)
			return New(), nil
		}
		return nil, &Error{Path: path, Message: "failed to read", Err: err}
	}

	o, err := Decode(data)
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Path = path
			return nil, se
		}
		return nil, &Error{Path: path, Message: "failed to parse", Err: err}
	}
	l.Debug("loaded override store", "path", path, "count", o.Len())
	return o, nil
}

// Save atomically replaces the store at path while holding the exclusive
// lock. The file is created readable by its owner only since it may hold
// passwords.
func Save(path string, o *Overrides) error {
	data, err := o.Encode()
	if err != nil {
		return &Error{Path: path, Message: "failed to encode", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Path: path, Message: "failed to create directory", Err: err}
	}

	lock := NewFileLock(path + ".lock")
	if err := lock.Lock(); err != nil {
		return &Error{Path: path, Message: "failed to lock", Err: err}
	}
	defer lock.Unlock()

	if err := storage.WriteFile(path, data, 0o600); err != nil {
		return &Error{Path: path, Message: "failed to write", Err: err}
	}
	return nil
}

// Decode parses a YAML override document. Nested mappings are flattened
// into dotted keys.
func Decode(data []byte) (*Overrides, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &Error{Message: "failed to parse", Err: err}
	}

	o := New()
	if len(root.Content) == 0 {
		return o, nil
	}
	doc := root.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.ShortTag() == "!!null" {
		return o, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, &Error{Message: fmt.Sprintf("line %d: expected a mapping of setting keys", doc.Line)}
	}
	if err := flatten(o, "", doc); err != nil {
		return nil, err
	}
	return o, nil
}

func flatten(o *Overrides, prefix string, m *yaml.Node) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		key := k.Value
		if prefix != "" {
			key = prefix + "." + key
		}
		if v.Kind == yaml.AliasNode {
			v = v.Alias
		}
		if v.Kind == yaml.MappingNode {
			if err := flatten(o, key, v); err != nil {
				return err
			}
			continue
		}
		if _, ok := o.Get(key); ok {
			return &Error{Setting: key, Message: fmt.Sprintf("line %d: duplicate key", k.Line)}
		}
		raw, err := rawFromNode(v)
		if err != nil {
			return &Error{Setting: key, Message: fmt.Sprintf("line %d: %v", v.Line, err)}
		}
		o.Set(key, raw)
	}
	return nil
}

func rawFromNode(n *yaml.Node) (option.Raw, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return option.Raw{Kind: option.RawNull}, nil
		case "!!bool":
			return option.Scalar(option.RawBool, n.Value), nil
		case "!!int":
			return option.Scalar(option.RawInt, n.Value), nil
		case "!!float":
			return option.Scalar(option.RawFloat, n.Value), nil
		}
		return option.Scalar(option.RawString, n.Value), nil
	case yaml.SequenceNode:
		items := make([]option.Raw, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := rawFromNode(c)
			if err != nil {
				return option.Raw{}, err
			}
			items = append(items, item)
		}
		return option.Seq(items...), nil
	}
	return option.Raw{}, errors.New("expected a scalar or a list")
}

// Encode renders the overrides as a flat YAML mapping in key order.
func (o *Overrides) Encode() ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.keys {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			nodeFromRaw(o.values[k]),
		)
	}
	return yaml.Marshal(doc)
}

func nodeFromRaw(r option.Raw) *yaml.Node {
	switch r.Kind {
	case option.RawNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case option.RawBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: r.Text}
	case option.RawInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: r.Text}
	case option.RawFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: r.Text}
	case option.RawSeq:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range r.Items {
			n.Content = append(n.Content, nodeFromRaw(item))
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Text}
}
