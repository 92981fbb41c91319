// Package document holds the order-preserving mapping passed from the
// renderer to the serializer.
package document

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Map is a string-keyed mapping that remembers insertion order.
// Values are scalars (nil, bool, int64, string), []string, []any or *Map.
type Map struct {
	keys []string
	vals map[string]any
}

// New returns an empty map.
func New() *Map {
	return &Map{vals: make(map[string]any)}
}

// Set stores v under key. A new key goes to the end; an existing key keeps
// its position.
func (m *Map) Set(key string, v any) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Range calls fn for every entry in order until fn returns false.
func (m *Map) Range(fn func(key string, v any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Sorted returns a copy of m with keys in lexical order. Nested maps are
// not touched.
func (m *Map) Sorted() *Map {
	out := New()
	keys := m.Keys()
	slices.Sort(keys)
	for _, k := range keys {
		out.Set(k, m.vals[k])
	}
	return out
}

// MarshalJSON writes the entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal encodes v as compact JSON without escaping <, > and &, which
// help texts carry as HTML links.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
