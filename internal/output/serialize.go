package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raphi011/ynh/internal/document"
	"github.com/raphi011/ynh/internal/option"
)

// Format is an output encoding.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the valid format names.
var Formats = []Format{FormatAuto, FormatPlain, FormatJSON, FormatYAML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("invalid format %q: must be auto, plain, json or yaml", s)
	}
	return f, nil
}

// Options controls serialization.
type Options struct {
	// Canonical sorts mapping keys and array items so that documents from
	// independent implementations compare equal. Plain output ignores it.
	Canonical bool
	// Indent pretty-prints JSON.
	Indent bool
}

// Auto picks plain for documents that print as a single value and YAML
// for everything else.
func Auto(doc any) Format {
	if _, err := plain(doc); err == nil {
		return FormatPlain
	}
	return FormatYAML
}

// Serialize encodes a rendered document.
func Serialize(doc any, format Format, opts Options) ([]byte, error) {
	if format == FormatAuto {
		format = Auto(doc)
	}
	if opts.Canonical && format != FormatPlain {
		doc = Canonical(doc)
	}

	switch format {
	case FormatPlain:
		s, err := plain(doc)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case FormatJSON:
		return encodeJSON(doc, opts.Indent)
	case FormatYAML:
		return encodeYAML(doc)
	}
	return nil, fmt.Errorf("invalid format %q", format)
}

// Canonical returns a copy of doc with every mapping sorted by key, scalar
// arrays sorted by value and arrays of documents sorted by their id.
func Canonical(doc any) any {
	switch t := doc.(type) {
	case *document.Map:
		out := document.New()
		t.Sorted().Range(func(k string, v any) bool {
			out.Set(k, Canonical(v))
			return true
		})
		return out
	case []string:
		out := slices.Clone(t)
		slices.Sort(out)
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = Canonical(v)
		}
		sortItems(out)
		return out
	}
	return doc
}

func sortItems(items []any) {
	if ids, ok := itemIDs(items); ok {
		idx := make([]int, len(items))
		for i := range idx {
			idx[i] = i
		}
		slices.SortStableFunc(idx, func(a, b int) int { return strings.Compare(ids[a], ids[b]) })
		sorted := make([]any, len(items))
		for i, j := range idx {
			sorted[i] = items[j]
		}
		copy(items, sorted)
		return
	}

	values := make([]option.Value, len(items))
	for i, item := range items {
		v, ok := option.FromNative(item)
		if !ok {
			return
		}
		values[i] = v
	}
	slices.SortStableFunc(values, option.Compare)
	for i, v := range values {
		items[i] = v.Native()
	}
}

// itemIDs returns the "id" of every item when all items are documents
// that carry one.
func itemIDs(items []any) ([]string, bool) {
	ids := make([]string, len(items))
	for i, item := range items {
		m, ok := item.(*document.Map)
		if !ok {
			return nil, false
		}
		v, ok := m.Get("id")
		if !ok {
			return nil, false
		}
		id, ok := v.(string)
		if !ok {
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

func encodeJSON(doc any, indent bool) ([]byte, error) {
	data, err := document.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	if !indent {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent json: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeYAML(doc any) ([]byte, error) {
	node, err := yamlNode(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(v any) (*yaml.Node, error) {
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}

	switch t := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(t)), nil
	case int:
		return scalar("!!int", strconv.Itoa(t)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(t, 10)), nil
	case float64:
		return scalar("!!float", formatFloat(t)), nil
	case string:
		return scalar("!!str", t), nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, s := range t {
			seq.Content = append(seq.Content, scalar("!!str", s))
		}
		return seq, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			n, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case *document.Map:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		t.Range(func(k string, item any) bool {
			var n *yaml.Node
			n, err = yamlNode(item)
			if err != nil {
				return false
			}
			m.Content = append(m.Content, scalar("!!str", k), n)
			return true
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("cannot encode %T as yaml", v)
}

// formatFloat prints the shortest text that reads back as f, keeping a
// ".0" on integral values so they stay floats.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// plain prints a single value: scalars bare, lists comma-joined. A mapping
// collapses to its value only when it holds exactly one entry.
func plain(doc any) (string, error) {
	switch t := doc.(type) {
	case nil:
		return "", nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return formatFloat(t), nil
	case string:
		return t, nil
	case []string:
		return strings.Join(t, ","), nil
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			v, ok := option.FromNative(item)
			if !ok {
				return "", &FormatMismatch{Entries: len(t)}
			}
			parts[i] = v.Text()
		}
		return strings.Join(parts, ","), nil
	case *document.Map:
		if t.Len() != 1 {
			return "", &FormatMismatch{Entries: t.Len()}
		}
		v, _ := t.Get(t.Keys()[0])
		return plain(v)
	}
	return "", fmt.Errorf("cannot print %T as plain text", doc)
}
