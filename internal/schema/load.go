package schema

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/ynh/internal/document"
	"github.com/raphi011/ynh/internal/log"
	"github.com/raphi011/ynh/internal/option"
)

// Properties recognized at each level. Table-valued keys that are not
// properties are children of the next level.
var (
	rootProperties    = []string{"version", "i18n"}
	panelProperties   = []string{"name", "services", "actions", "help", "bind", "visible"}
	sectionProperties = []string{"name", "services", "optional", "help", "visible", "bind"}
	optionProperties  = []string{
		"ask", "type", "bind", "help", "example", "default", "style", "icon",
		"placeholder", "visible", "optional", "choices", "yes", "no", "pattern",
		"limit", "min", "max", "step", "accept", "redact", "filter", "readonly",
		"enabled",
	}
)

// LoadFile reads and validates a TOML schema file.
func LoadFile(ctx context.Context, path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: "failed to read", Err: err}
	}
	s, err := Load(ctx, data)
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Load parses and validates a TOML schema. Panels, sections, options and
// choices keep their document order. Unknown properties are logged as
// warnings.
func Load(ctx context.Context, data []byte) (*Schema, error) {
	var tree map[string]any
	md, err := toml.Decode(string(data), &tree)
	if err != nil {
		return nil, &Error{Message: "failed to parse", Err: err}
	}

	l := newLoader(ctx, md)
	s := &Schema{}
	for _, k := range l.keysOf(nil, tree) {
		v := tree[k]
		switch k {
		case "version":
			s.Version = versionString(v)
		case "i18n":
			i18n, ok := v.(string)
			if !ok {
				return nil, errorf("", "i18n must be a string")
			}
			s.I18n = i18n
		default:
			table, ok := v.(map[string]any)
			if !ok {
				l.unknown(nil, k, rootProperties)
				continue
			}
			p, err := l.panel(k, table)
			if err != nil {
				return nil, err
			}
			s.Panels = append(s.Panels, p)
		}
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

type loader struct {
	order map[string]int
	log   *log.Logger
}

func newLoader(ctx context.Context, md toml.MetaData) *loader {
	l := &loader{order: make(map[string]int), log: log.FromContext(ctx)}
	// Implicit parent tables may be missing from Keys(); a table then sorts
	// at the position of its first descendant.
	for i, key := range md.Keys() {
		for n := 1; n <= len(key); n++ {
			id := strings.Join(key[:n], "\x00")
			if _, ok := l.order[id]; !ok {
				l.order[id] = i
			}
		}
	}
	return l
}

// keysOf returns the keys of table in document order.
func (l *loader) keysOf(path []string, table map[string]any) []string {
	keys := slices.Collect(maps.Keys(table))
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Or(cmp.Compare(l.pos(path, a), l.pos(path, b)), strings.Compare(a, b))
	})
	return keys
}

func (l *loader) pos(path []string, key string) int {
	id := strings.Join(append(slices.Clone(path), key), "\x00")
	if i, ok := l.order[id]; ok {
		return i
	}
	return math.MaxInt
}

func (l *loader) unknown(path []string, key string, known []string) {
	l.log.Warn("ignoring unknown schema property",
		"key", strings.Join(append(slices.Clone(path), key), "."),
		"known", strings.Join(known, ","))
}

func (l *loader) panel(id string, table map[string]any) (*Panel, error) {
	p := &Panel{ID: id}
	path := []string{id}

	for _, k := range l.keysOf(path, table) {
		v := table[k]
		var err error
		switch k {
		case "name":
			p.Name, err = l.text(append(path, k), v)
		case "help":
			p.Help, err = l.text(append(path, k), v)
		case "services":
			p.Services, err = stringList(v)
		case "actions":
			p.Actions, err = l.actions(append(path, k), v)
		case "visible":
			p.Visible, err = predicate(v)
		case "bind":
			l.log.Debug("panel bind is only used on write", "key", id)
		default:
			child, ok := v.(map[string]any)
			if !ok {
				l.unknown(path, k, panelProperties)
				continue
			}
			sec, err := l.section(path, k, child)
			if err != nil {
				return nil, err
			}
			p.Sections = append(p.Sections, sec)
		}
		if err != nil {
			return nil, &Error{Setting: id, Message: "invalid " + k, Err: err}
		}
	}
	return p, nil
}

func (l *loader) section(parent []string, id string, table map[string]any) (*Section, error) {
	sec := &Section{ID: id, Optional: true}
	path := append(slices.Clone(parent), id)
	key := strings.Join(path, ".")

	for _, k := range l.keysOf(path, table) {
		v := table[k]
		var err error
		switch k {
		case "name":
			sec.Name, err = l.text(append(path, k), v)
		case "help":
			sec.Help, err = l.text(append(path, k), v)
		case "services":
			sec.Services, err = stringList(v)
		case "optional":
			sec.Optional, err = boolean(v)
		case "visible":
			sec.Visible, err = predicate(v)
		case "bind":
			l.log.Debug("section bind is only used on write", "key", key)
		default:
			child, ok := v.(map[string]any)
			if !ok {
				l.unknown(path, k, sectionProperties)
				continue
			}
			o, err := l.option(path, k, child)
			if err != nil {
				return nil, err
			}
			sec.Options = append(sec.Options, o)
		}
		if err != nil {
			return nil, &Error{Setting: key, Message: "invalid " + k, Err: err}
		}
	}
	return sec, nil
}

func (l *loader) option(parent []string, id string, table map[string]any) (*Option, error) {
	o := &Option{ID: id, Type: option.TypeString, Optional: true}
	path := append(slices.Clone(parent), id)
	key := strings.Join(path, ".")

	// The type decides how the other properties are read.
	if v, ok := table["type"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, errorf(key, "type must be a string")
		}
		t, err := option.ParseType(name)
		if err != nil {
			return nil, &Error{Setting: key, Message: "invalid type", Err: err}
		}
		o.Type = t
	}

	var (
		rawDefault any
		hasDefault bool
	)
	for _, k := range l.keysOf(path, table) {
		v := table[k]
		var err error
		switch k {
		case "type":
		case "ask":
			o.Ask, err = l.text(append(path, k), v)
		case "help":
			o.Help, err = l.text(append(path, k), v)
		case "default":
			rawDefault, hasDefault = v, true
		case "optional":
			o.Optional, err = boolean(v)
		case "readonly":
			o.Readonly, err = boolean(v)
		case "visible":
			o.Visible, err = predicate(v)
		case "choices":
			o.Choices, err = l.choices(append(path, k), v)
		case "pattern":
			o.Pattern, err = l.pattern(append(path, k), v)
		case "min":
			o.Min, err = integer(v)
		case "max":
			o.Max, err = integer(v)
		default:
			if !slices.Contains(optionProperties, k) {
				l.unknown(path, k, optionProperties)
				continue
			}
			o.Extra = append(o.Extra, Field{Name: k, Value: l.plain(append(path, k), v)})
		}
		if err != nil {
			return nil, &Error{Setting: key, Message: "invalid " + k, Err: err}
		}
	}

	if hasDefault && !o.Type.DisplayOnly() {
		raw, err := option.RawOf(rawDefault)
		if err != nil {
			return nil, &Error{Setting: key, Message: "invalid default", Err: err}
		}
		def, err := option.Coerce(raw, o.Rules())
		if err != nil {
			return nil, &Error{Setting: key, Message: "invalid default", Err: err}
		}
		o.Default = def
	}
	return o, nil
}

// text reads a label: a plain string is English, a table maps locales.
func (l *loader) text(path []string, v any) (Text, error) {
	switch t := v.(type) {
	case string:
		return PlainText(t), nil
	case map[string]any:
		var out Text
		for _, locale := range l.keysOf(path, t) {
			s, ok := t[locale].(string)
			if !ok {
				return nil, fmt.Errorf("locale %q: expected a string", locale)
			}
			out = append(out, Translation{Locale: locale, Text: s})
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a string or a locale table, got %T", v)
}

func (l *loader) actions(path []string, v any) ([]Action, error) {
	table, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a table, got %T", v)
	}
	actions := []Action{}
	for _, id := range l.keysOf(path, table) {
		label, err := l.text(append(path, id), table[id])
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", id, err)
		}
		actions = append(actions, Action{ID: id, Label: label})
	}
	return actions, nil
}

// choices reads either a list of values or a value → label table.
func (l *loader) choices(path []string, v any) ([]option.Choice, error) {
	switch t := v.(type) {
	case []any:
		choices := make([]option.Choice, 0, len(t))
		for _, item := range t {
			raw, err := option.RawOf(item)
			if err != nil || raw.Kind == option.RawSeq {
				return nil, fmt.Errorf("choice %v: expected a scalar", item)
			}
			choices = append(choices, option.Choice{Value: raw.Text})
		}
		return choices, nil
	case map[string]any:
		var choices []option.Choice
		for _, value := range l.keysOf(path, t) {
			label, err := l.text(append(path, value), t[value])
			if err != nil {
				return nil, fmt.Errorf("choice %q: %w", value, err)
			}
			text, _ := label.Lookup("en")
			choices = append(choices, option.Choice{Value: value, Label: text})
		}
		return choices, nil
	}
	return nil, fmt.Errorf("expected a list or a table, got %T", v)
}

func (l *loader) pattern(path []string, v any) (*option.Pattern, error) {
	switch t := v.(type) {
	case string:
		return option.CompilePattern(t, "")
	case map[string]any:
		source, ok := t["regexp"].(string)
		if !ok {
			return nil, fmt.Errorf("missing regexp")
		}
		var msg string
		if e, ok := t["error"]; ok {
			text, err := l.text(append(path, "error"), e)
			if err != nil {
				return nil, fmt.Errorf("error: %w", err)
			}
			msg, _ = text.Lookup("en")
		}
		return option.CompilePattern(source, msg)
	}
	return nil, fmt.Errorf("expected a string or a table, got %T", v)
}

// plain converts a decoded TOML value into a document value, keeping the
// order of nested tables.
func (l *loader) plain(path []string, v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := document.New()
		for _, k := range l.keysOf(path, t) {
			m.Set(k, l.plain(append(path, k), t[k]))
		}
		return m
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = l.plain(path, item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = l.plain(path, item)
		}
		return out
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return v
}

func versionString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return fmt.Sprint(v)
}

func predicate(v any) (*Predicate, error) {
	switch t := v.(type) {
	case bool:
		return Literal(t), nil
	case string:
		return CompilePredicate(t)
	}
	return nil, fmt.Errorf("expected a boolean or an expression, got %T", v)
}

func boolean(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean, got %T", v)
	}
	return b, nil
}

func integer(v any) (*int64, error) {
	switch t := v.(type) {
	case int64:
		return &t, nil
	case float64:
		if t == math.Trunc(t) {
			n := int64(t)
			return &n, nil
		}
	}
	return nil, fmt.Errorf("expected an integer, got %v", v)
}

func stringList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a list of strings, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}
