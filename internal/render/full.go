package render

import (
	"github.com/raphi011/ynh/internal/document"
	"github.com/raphi011/ynh/internal/option"
	"github.com/raphi011/ynh/internal/schema"
	"github.com/raphi011/ynh/internal/settings"
)

// typeDefaults are fields the full view adds per option type unless the
// schema sets them.
var typeDefaults = map[option.Type][]schema.Field{
	option.TypeBoolean:  {{Name: "yes", Value: int64(1)}, {Name: "no", Value: int64(0)}},
	option.TypePassword: {{Name: "redact", Value: true}},
}

type fullRenderer struct {
	sess *settings.Session
}

func (r *fullRenderer) node(n *settings.Node, top bool) any {
	switch n.Level() {
	case schema.LevelRoot:
		m := document.New()
		m.Set("version", r.sess.Schema.Version)
		m.Set("i18n", r.sess.Schema.I18n)
		m.Set("panels", r.children(n))
		return m
	case schema.LevelPanel:
		return r.panel(n)
	case schema.LevelSection:
		return r.section(n)
	}
	return r.option(n, top)
}

func (r *fullRenderer) children(n *settings.Node) []any {
	out := make([]any, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, r.node(c, false))
	}
	return out
}

func (r *fullRenderer) panel(n *settings.Node) *document.Map {
	p := n.Panel
	m := document.New()
	m.Set("id", p.ID)
	m.Set("name", textMap(p.Name))
	if help, ok := p.Help.Lookup(r.sess.Locale); ok {
		m.Set("help", help)
	}
	m.Set("services", servicesList(p.Services))
	actions := document.New()
	for _, a := range p.Actions {
		actions.Set(a.ID, textMap(a.Label))
	}
	m.Set("actions", actions)
	m.Set("visible", n.Visible)
	m.Set("sections", r.children(n))
	return m
}

func (r *fullRenderer) section(n *settings.Node) *document.Map {
	sec := n.Section
	m := document.New()
	m.Set("id", sec.ID)
	m.Set("name", textMap(sec.Name))
	if help, ok := sec.Help.Lookup(r.sess.Locale); ok {
		m.Set("help", help)
	}
	m.Set("optional", sec.Optional)
	m.Set("services", servicesList(sec.Services))
	m.Set("is_action_section", sec.IsActionSection())
	m.Set("visible", n.Visible)
	m.Set("options", r.children(n))
	return m
}

func (r *fullRenderer) option(n *settings.Node, top bool) *document.Map {
	o := n.Option
	m := document.New()
	m.Set("id", o.ID)
	m.Set("name", o.ID)
	m.Set("ask", r.ask(o))
	if help, ok := r.help(o); ok {
		m.Set("help", help)
	}
	m.Set("type", string(o.Type))

	if !o.Type.DisplayOnly() {
		m.Set("value", optionValue(n, top))
		if o.Default != nil {
			m.Set("default", fullDefault(o.Default))
		}
	}
	if len(o.Choices) > 0 {
		m.Set("choices", choices(o.Choices))
	}
	m.Set("optional", o.Optional)
	m.Set("readonly", o.Readonly)
	m.Set("visible", n.Visible)
	if o.Pattern != nil {
		p := document.New()
		p.Set("regexp", o.Pattern.Source)
		if o.Pattern.Error != "" {
			p.Set("error", o.Pattern.Error)
		}
		m.Set("pattern", p)
	}
	if o.Min != nil {
		m.Set("min", *o.Min)
	}
	if o.Max != nil {
		m.Set("max", *o.Max)
	}

	for _, f := range typeDefaults[o.Type] {
		if _, ok := o.Field(f.Name); !ok {
			m.Set(f.Name, f.Value)
		}
	}
	for _, f := range o.Extra {
		m.Set(f.Name, f.Value)
	}
	return m
}

// ask is the option label, falling back to the id.
func (r *fullRenderer) ask(o *schema.Option) string {
	if text, ok := r.label(o.Ask, o.ID); ok {
		return text
	}
	return o.ID
}

func (r *fullRenderer) help(o *schema.Option) (string, bool) {
	return r.label(o.Help, o.ID+"_help")
}

// label picks a locale table entry for the session locale, then the
// catalog entry <i18n>_<suffix>, then a bare schema string.
func (r *fullRenderer) label(t schema.Text, suffix string) (string, bool) {
	if !t.IsPlain() {
		if text, ok := t.Lookup(r.sess.Locale); ok {
			return text, true
		}
	}
	if text, ok := r.translate(suffix); ok {
		return text, true
	}
	return t.Lookup(r.sess.Locale)
}

// translate asks the translator for the schema-prefixed msgid. A
// translator that echoes the msgid has no entry.
func (r *fullRenderer) translate(suffix string) (string, bool) {
	prefix := r.sess.Schema.I18n
	if prefix == "" {
		return "", false
	}
	msgid := prefix + "_" + suffix
	text := r.sess.Translate(msgid, r.sess.Locale, nil)
	if text == "" || text == msgid {
		return "", false
	}
	return text, true
}

// fullDefault shows an empty string default as null.
func fullDefault(v option.Value) any {
	if s, ok := v.(option.String); ok && s == "" {
		return nil
	}
	return native(v)
}

func textMap(t schema.Text) *document.Map {
	m := document.New()
	for _, tr := range t {
		m.Set(tr.Locale, tr.Text)
	}
	return m
}

func servicesList(services []string) []string {
	if services == nil {
		return []string{}
	}
	return services
}

// choices renders a value → label table when labels exist, else the plain
// list of values.
func choices(cs []option.Choice) any {
	labelled := false
	for _, c := range cs {
		if c.Label != "" {
			labelled = true
			break
		}
	}
	if !labelled {
		values := make([]string, len(cs))
		for i, c := range cs {
			values[i] = c.Value
		}
		return values
	}
	m := document.New()
	for _, c := range cs {
		m.Set(c.Value, c.Label)
	}
	return m
}
