package option

import (
	"cmp"
	"strconv"
	"strings"
)

// Value is a typed option value. The set of implementations is closed:
// Null, Bool, Int, String and List.
type Value interface {
	// Native returns the value as a plain Go value (nil, bool, int64,
	// string or []string) for rendering and expression evaluation.
	Native() any
	// Text returns the value formatted for plain-text output.
	Text() string

	rank() int
}

// Null is the absence of a value.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// Int is an integer value.
type Int int64

// String is a string value, used for every string-like type.
type String string

// List is an ordered list of strings, used for tags.
type List []string

func (Null) Native() any     { return nil }
func (b Bool) Native() any   { return bool(b) }
func (i Int) Native() any    { return int64(i) }
func (s String) Native() any { return string(s) }
func (l List) Native() any {
	out := make([]string, len(l))
	copy(out, l)
	return out
}

func (Null) Text() string     { return "" }
func (b Bool) Text() string   { return strconv.FormatBool(bool(b)) }
func (i Int) Text() string    { return strconv.FormatInt(int64(i), 10) }
func (s String) Text() string { return string(s) }
func (l List) Text() string   { return strings.Join(l, ",") }

func (Null) rank() int   { return 0 }
func (Bool) rank() int   { return 1 }
func (Int) rank() int    { return 2 }
func (String) rank() int { return 3 }
func (List) rank() int   { return 4 }

// Compare orders two values. Values of different variants are ordered
// Null < Bool < Int < String < List; within a variant integers compare
// numerically, strings lexically, false before true, and lists element-wise.
func Compare(a, b Value) int {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if c := cmp.Compare(a.rank(), b.rank()); c != 0 {
		return c
	}
	switch av := a.(type) {
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return 0
		case !bool(av):
			return -1
		default:
			return 1
		}
	case Int:
		return cmp.Compare(av, b.(Int))
	case String:
		return strings.Compare(string(av), string(b.(String)))
	case List:
		bv := b.(List)
		for i := 0; i < len(av) && i < len(bv); i++ {
			if c := strings.Compare(av[i], bv[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(av), len(bv))
	}
	return 0
}

// Equal reports whether two values are the same variant and compare equal.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// FromNative converts a plain Go value back into a Value. It accepts the
// outputs of Native as well as the scalar types produced by decoders.
// Unsupported types yield false.
func FromNative(v any) (Value, bool) {
	switch t := v.(type) {
	case nil:
		return Null{}, true
	case bool:
		return Bool(t), true
	case int:
		return Int(t), true
	case int64:
		return Int(t), true
	case string:
		return String(t), true
	case []string:
		return List(t), true
	}
	return nil, false
}
