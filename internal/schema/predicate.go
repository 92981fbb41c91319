package schema

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predicate is a visibility condition. It is either a literal boolean or an
// expression over the merged option values, evaluated on demand.
type Predicate struct {
	Source   string
	constant *bool
	program  *vm.Program
}

// Literal returns a predicate with a fixed result.
func Literal(b bool) *Predicate {
	return &Predicate{Source: fmt.Sprint(b), constant: &b}
}

// CompilePredicate compiles an expression such as
// "smtp_relay_enabled && smtp_relay_port != 25". Identifiers the
// environment does not define evaluate to nil.
func CompilePredicate(source string) (*Predicate, error) {
	switch strings.TrimSpace(source) {
	case "":
		return nil, fmt.Errorf("empty visibility expression")
	case "true":
		return Literal(true), nil
	case "false":
		return Literal(false), nil
	}
	program, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile visibility %q: %w", source, err)
	}
	return &Predicate{Source: source, program: program}, nil
}

// Eval runs the predicate against env. A nil predicate is true.
// Non-boolean results follow the usual truthiness: nil, zero, "" and empty
// lists are false.
func (p *Predicate) Eval(env map[string]any) (bool, error) {
	if p == nil {
		return true, nil
	}
	if p.constant != nil {
		return *p.constant, nil
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate visibility %q: %w", p.Source, err)
	}
	return truthy(out), nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}
