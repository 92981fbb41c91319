// Package settings resolves dotted keys against a schema and an override
// store.
//
// A [Session] is built once per invocation. It merges every option's
// default with its stored override up front, so an invalid override fails
// the whole invocation whether or not its option is currently visible.
// Visibility is evaluated on demand against the merged values and never
// cached.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/ynh/internal/i18n"
	"github.com/raphi011/ynh/internal/log"
	"github.com/raphi011/ynh/internal/option"
	"github.com/raphi011/ynh/internal/schema"
	"github.com/raphi011/ynh/internal/store"
)

// maxSuggestions caps the "did you mean" list of an unknown key.
const maxSuggestions = 3

// Session is the per-invocation context: one schema, one snapshot of the
// override store, and the translation settings used when rendering.
type Session struct {
	Schema    *schema.Schema
	Overrides *store.Overrides
	Translate i18n.Translator
	Locale    string

	values map[schema.Key]option.Value
	env    map[string]any
}

// NewSession merges defaults with overrides. Override keys may be full
// dotted keys, legacy names, or bare option ids when the id is unique.
// An override naming no option is a *store.Error; an override that does
// not fit its option is a *option.TypeMismatch or *option.ConstraintViolation
// naming the key.
func NewSession(ctx context.Context, s *schema.Schema, overrides *store.Overrides, translate i18n.Translator, locale string) (*Session, error) {
	if overrides == nil {
		overrides = store.New()
	}
	if translate == nil {
		translate = i18n.Identity
	}
	if locale == "" {
		locale = i18n.DefaultLocale
	}

	sess := &Session{
		Schema:    s,
		Overrides: overrides,
		Translate: translate,
		Locale:    locale,
		values:    make(map[schema.Key]option.Value),
	}

	stored, err := sess.storedByKey(ctx)
	if err != nil {
		return nil, err
	}

	var mergeErr error
	s.Walk(func(key schema.Key, _ *schema.Panel, _ *schema.Section, o *schema.Option) {
		if mergeErr != nil {
			return
		}
		raw, has := stored[key]
		v, err := option.Merge(o.Default, raw, has, o.Rules())
		if err != nil {
			mergeErr = option.WithKey(err, key.String())
			return
		}
		sess.values[key] = v
	})
	if mergeErr != nil {
		return nil, mergeErr
	}

	sess.env = sess.environment()
	return sess, nil
}

// storedByKey maps every override to the option it targets.
func (s *Session) storedByKey(ctx context.Context) (map[schema.Key]option.Raw, error) {
	l := log.FromContext(ctx)

	byID := make(map[string][]schema.Key)
	s.Schema.Walk(func(key schema.Key, _ *schema.Panel, _ *schema.Section, _ *schema.Option) {
		byID[key.Option] = append(byID[key.Option], key)
	})

	stored := make(map[schema.Key]option.Raw, s.Overrides.Len())
	for _, name := range s.Overrides.Keys() {
		key, err := s.overrideKey(name, byID)
		if err != nil {
			return nil, err
		}
		if _, dup := stored[key]; dup {
			l.Warn("setting stored twice, later entry wins", "key", key.String(), "entry", name)
		}
		raw, _ := s.Overrides.Get(name)
		stored[key] = raw
	}
	l.Debug("merged overrides", "count", len(stored))
	return stored, nil
}

func (s *Session) overrideKey(name string, byID map[string][]schema.Key) (schema.Key, error) {
	current := TranslateLegacyKey(name)
	if !strings.Contains(current, ".") {
		switch keys := byID[current]; len(keys) {
		case 1:
			return keys[0], nil
		case 0:
			return schema.Key{}, &store.Error{Setting: name, Message: "unknown setting"}
		default:
			return schema.Key{}, &store.Error{Setting: name, Message: fmt.Sprintf("ambiguous setting id, use one of %s", joinKeys(keys))}
		}
	}

	key, err := schema.ParseKey(current)
	if err != nil {
		return schema.Key{}, &store.Error{Setting: name, Message: "invalid setting key", Err: err}
	}
	if key.Level() != schema.LevelOption {
		return schema.Key{}, &store.Error{Setting: name, Message: "override must name an option"}
	}
	if _, ok := s.Schema.Lookup(key); !ok {
		return schema.Key{}, &store.Error{Setting: name, Message: "unknown setting"}
	}
	return key, nil
}

func joinKeys(keys []schema.Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

// environment builds the variables visibility expressions see: every
// value under panel.section.option, and under its bare id when that id is
// unique and does not shadow a panel.
func (s *Session) environment() map[string]any {
	env := make(map[string]any)
	counts := make(map[string]int)
	s.Schema.Walk(func(key schema.Key, _ *schema.Panel, _ *schema.Section, _ *schema.Option) {
		counts[key.Option]++
	})

	for _, p := range s.Schema.Panels {
		sections := make(map[string]any, len(p.Sections))
		for _, sec := range p.Sections {
			opts := make(map[string]any, len(sec.Options))
			for _, o := range sec.Options {
				opts[o.ID] = s.values[schema.Key{Panel: p.ID, Section: sec.ID, Option: o.ID}].Native()
			}
			sections[sec.ID] = opts
		}
		env[p.ID] = sections
	}

	s.Schema.Walk(func(key schema.Key, _ *schema.Panel, _ *schema.Section, _ *schema.Option) {
		if counts[key.Option] != 1 {
			return
		}
		if _, taken := env[key.Option]; taken {
			return
		}
		env[key.Option] = s.values[key].Native()
	})
	return env
}

// Value returns the merged value of the option at key, or nil when key
// does not name an option.
func (s *Session) Value(key schema.Key) option.Value {
	return s.values[key]
}

// guard is a visibility predicate with the key it belongs to.
type guard struct {
	key  string
	pred *schema.Predicate
}

// Visible evaluates the predicates of n and all its ancestors against the
// merged values.
func (s *Session) Visible(n schema.Node) (bool, error) {
	var guards []guard
	if n.Panel != nil {
		guards = append(guards, guard{n.Panel.ID, n.Panel.Visible})
	}
	if n.Section != nil {
		guards = append(guards, guard{n.Panel.ID + "." + n.Section.ID, n.Section.Visible})
	}
	if n.Option != nil {
		guards = append(guards, guard{n.Key.String(), n.Option.Visible})
	}

	for _, g := range guards {
		ok, err := g.pred.Eval(s.env)
		if err != nil {
			return false, &schema.Error{Setting: g.key, Message: "invalid visibility", Err: err}
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// suggest returns the schema keys closest to key.
func (s *Session) suggest(key string) []string {
	if key == "" {
		return nil
	}
	matches := fuzzy.Find(key, s.Schema.Keys())
	var out []string
	for i, m := range matches {
		if i == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
