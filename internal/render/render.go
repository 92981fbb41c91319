// Package render shapes a resolved settings subtree into a document for
// one of three modes:
//
//   - classic: bare values, visible nodes only, nested by panel and section
//   - full: every node annotated with labels, type, default and visibility
//   - export: a flat mapping from dotted key to value, hidden options included
//
// Documents are built from *document.Map, []any and plain scalars so the
// output package can serialize them in declaration order.
package render

import (
	"fmt"
	"slices"

	"github.com/raphi011/ynh/internal/document"
	"github.com/raphi011/ynh/internal/option"
	"github.com/raphi011/ynh/internal/schema"
	"github.com/raphi011/ynh/internal/settings"
)

// Mode selects the document shape.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeFull    Mode = "full"
	ModeExport  Mode = "export"
)

// Modes lists the valid modes.
var Modes = []Mode{ModeClassic, ModeFull, ModeExport}

// Redacted replaces secret values inside panel and section listings.
const Redacted = "**************"

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		return "", fmt.Errorf("invalid mode %q: must be classic, full or export", s)
	}
	return m, nil
}

// Render builds the document for n.
func Render(sess *settings.Session, n *settings.Node, mode Mode) (any, error) {
	switch mode {
	case ModeClassic:
		return classic(n, true), nil
	case ModeFull:
		r := &fullRenderer{sess: sess}
		return r.node(n, true), nil
	case ModeExport:
		return export(n), nil
	}
	return nil, fmt.Errorf("invalid mode %q", mode)
}

func classic(n *settings.Node, top bool) any {
	if n.Level() == schema.LevelOption {
		return optionValue(n, top)
	}
	m := document.New()
	for _, c := range n.Children {
		if !c.Visible {
			continue
		}
		if c.Level() == schema.LevelOption && c.Option.Type.DisplayOnly() {
			continue
		}
		m.Set(c.Key.ID(), classic(c, false))
	}
	return m
}

// optionValue is the bare value of an option. Secrets are shown only when
// the option itself was asked for.
func optionValue(n *settings.Node, top bool) any {
	if !top && n.Option.Type.Secret() && !isEmpty(n.Value) {
		return Redacted
	}
	return native(n.Value)
}

func export(n *settings.Node) any {
	if n.Level() == schema.LevelOption {
		return native(n.Value)
	}
	m := document.New()
	for _, o := range n.Options() {
		if o.Option.Type.DisplayOnly() {
			continue
		}
		m.Set(o.Key.String(), native(o.Value))
	}
	return m
}

func native(v option.Value) any {
	if v == nil {
		return nil
	}
	return v.Native()
}

func isEmpty(v option.Value) bool {
	switch t := v.(type) {
	case nil, option.Null:
		return true
	case option.String:
		return t == ""
	}
	return false
}
