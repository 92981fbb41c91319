package schema

import (
	"github.com/raphi011/ynh/internal/option"
)

// Version is the only schema version understood.
const Version = "1.0"

// Schema is the ordered tree of panels. It is immutable once loaded.
type Schema struct {
	Version string
	I18n    string // msgid prefix for labels without inline text
	Panels  []*Panel
}

// Panel is a top-level group of sections.
type Panel struct {
	ID       string
	Name     Text
	Help     Text
	Services []string
	Actions  []Action
	Visible  *Predicate // nil means always visible
	Sections []*Section
}

// Action is a panel button such as "apply".
type Action struct {
	ID    string
	Label Text
}

// Section is a named group of options inside a panel.
type Section struct {
	ID       string
	Name     Text
	Help     Text
	Services []string
	Optional bool
	Visible  *Predicate
	Options  []*Option
}

// Option is a single typed setting.
type Option struct {
	ID       string
	Type     option.Type
	Ask      Text
	Help     Text
	Default  option.Value // nil when the schema declares none
	Optional bool
	Readonly bool
	Visible  *Predicate
	Choices  []option.Choice
	Pattern  *option.Pattern
	Min      *int64
	Max      *int64

	// Extra holds presentation properties (example, placeholder, bind...)
	// that the engine passes through untouched, in declaration order.
	Extra []Field
}

// Field is a passthrough property.
type Field struct {
	Name  string
	Value any
}

// Rules returns the coercion rules of the option.
func (o *Option) Rules() option.Rules {
	return option.Rules{
		Type:     o.Type,
		Optional: o.Optional,
		Choices:  o.Choices,
		Pattern:  o.Pattern,
		Min:      o.Min,
		Max:      o.Max,
	}
}

// Field returns the passthrough property with the given name.
func (o *Option) Field(name string) (any, bool) {
	for _, f := range o.Extra {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// IsActionSection reports whether the section holds a button.
func (s *Section) IsActionSection() bool {
	for _, o := range s.Options {
		if o.Type == option.TypeButton {
			return true
		}
	}
	return false
}

// Panel returns the panel with the given id.
func (s *Schema) Panel(id string) (*Panel, bool) {
	for _, p := range s.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Section returns the section with the given id.
func (p *Panel) Section(id string) (*Section, bool) {
	for _, sec := range p.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return nil, false
}

// Option returns the option with the given id.
func (s *Section) Option(id string) (*Option, bool) {
	for _, o := range s.Options {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// Walk calls fn for every option in declaration order.
func (s *Schema) Walk(fn func(key Key, p *Panel, sec *Section, o *Option)) {
	for _, p := range s.Panels {
		for _, sec := range p.Sections {
			for _, o := range sec.Options {
				fn(Key{Panel: p.ID, Section: sec.ID, Option: o.ID}, p, sec, o)
			}
		}
	}
}

// Keys returns the dotted key of every panel, section and option in
// declaration order.
func (s *Schema) Keys() []string {
	var keys []string
	for _, p := range s.Panels {
		keys = append(keys, p.ID)
		for _, sec := range p.Sections {
			keys = append(keys, p.ID+"."+sec.ID)
			for _, o := range sec.Options {
				keys = append(keys, p.ID+"."+sec.ID+"."+o.ID)
			}
		}
	}
	return keys
}

// Node is a located schema node. Panel, Section and Option are set down to
// the node's level.
type Node struct {
	Key     Key
	Panel   *Panel
	Section *Section
	Option  *Option
}

// Level returns how deep the node sits in the tree.
func (n Node) Level() Level {
	return n.Key.Level()
}

// Lookup walks the tree along key. It returns false when the key is well
// formed but names nothing.
func (s *Schema) Lookup(key Key) (Node, bool) {
	n := Node{Key: key}
	if key.Panel == "" {
		return n, true
	}
	p, ok := s.Panel(key.Panel)
	if !ok {
		return Node{}, false
	}
	n.Panel = p
	if key.Section == "" {
		return n, true
	}
	sec, ok := p.Section(key.Section)
	if !ok {
		return Node{}, false
	}
	n.Section = sec
	if key.Option == "" {
		return n, true
	}
	o, ok := sec.Option(key.Option)
	if !ok {
		return Node{}, false
	}
	n.Option = o
	return n, true
}
