package settings

import (
	"github.com/raphi011/ynh/internal/option"
	"github.com/raphi011/ynh/internal/schema"
)

// Node is one resolved node: its schema definition, its merged value for
// options, and whether it is visible under the current values. Nodes live
// for a single render.
type Node struct {
	schema.Node
	Value    option.Value // options only
	Visible  bool         // own predicate and every ancestor's
	Children []*Node
}

// Resolve finds the node at key and resolves its whole subtree. The empty
// key is the entire schema. Legacy setting names are accepted.
func (s *Session) Resolve(key string) (*Node, error) {
	k, err := schema.ParseKey(TranslateLegacyKey(key))
	if err != nil {
		return nil, &UnknownKeyError{Setting: key, Err: err}
	}
	n, ok := s.Schema.Lookup(k)
	if !ok {
		return nil, &UnknownKeyError{Setting: key, Suggestions: s.suggest(key)}
	}
	return s.resolve(n)
}

func (s *Session) resolve(n schema.Node) (*Node, error) {
	visible, err := s.Visible(n)
	if err != nil {
		return nil, err
	}
	out := &Node{Node: n, Visible: visible}

	var children []schema.Node
	switch n.Level() {
	case schema.LevelRoot:
		for _, p := range s.Schema.Panels {
			children = append(children, schema.Node{Key: n.Key.Child(p.ID), Panel: p})
		}
	case schema.LevelPanel:
		for _, sec := range n.Panel.Sections {
			children = append(children, schema.Node{Key: n.Key.Child(sec.ID), Panel: n.Panel, Section: sec})
		}
	case schema.LevelSection:
		for _, o := range n.Section.Options {
			children = append(children, schema.Node{Key: n.Key.Child(o.ID), Panel: n.Panel, Section: n.Section, Option: o})
		}
	case schema.LevelOption:
		out.Value = s.values[n.Key]
	}

	for _, c := range children {
		child, err := s.resolve(c)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}

// Options returns every option node under n in declaration order,
// including n itself when it is an option.
func (n *Node) Options() []*Node {
	if n.Level() == schema.LevelOption {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Options()...)
	}
	return out
}
