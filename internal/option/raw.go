package option

import (
	"fmt"
	"strconv"
	"strings"
)

// RawKind classifies the textual form of a raw value.
type RawKind int

const (
	RawNull RawKind = iota
	RawBool
	RawInt
	RawFloat
	RawString
	RawSeq
)

func (k RawKind) String() string {
	switch k {
	case RawNull:
		return "null"
	case RawBool:
		return "boolean"
	case RawInt:
		return "integer"
	case RawFloat:
		return "float"
	case RawString:
		return "string"
	case RawSeq:
		return "list"
	}
	return "unknown"
}

// Raw is a value as it was read from a schema or store file, before
// coercion. Text keeps the literal scalar so that a string option whose
// stored value looks numeric keeps its exact spelling.
type Raw struct {
	Kind  RawKind
	Text  string
	Items []Raw
}

// Scalar builds a scalar raw value.
func Scalar(kind RawKind, text string) Raw {
	return Raw{Kind: kind, Text: text}
}

// Seq builds a sequence raw value.
func Seq(items ...Raw) Raw {
	return Raw{Kind: RawSeq, Items: items}
}

// RawOf converts a decoded Go value (as produced by TOML or YAML decoders
// into `any`) into a Raw.
func RawOf(v any) (Raw, error) {
	switch t := v.(type) {
	case nil:
		return Raw{Kind: RawNull}, nil
	case bool:
		return Scalar(RawBool, strconv.FormatBool(t)), nil
	case int:
		return Scalar(RawInt, strconv.Itoa(t)), nil
	case int64:
		return Scalar(RawInt, strconv.FormatInt(t, 10)), nil
	case float64:
		return Scalar(RawFloat, strconv.FormatFloat(t, 'f', -1, 64)), nil
	case string:
		return Scalar(RawString, t), nil
	case []string:
		items := make([]Raw, len(t))
		for i, s := range t {
			items[i] = Scalar(RawString, s)
		}
		return Seq(items...), nil
	case []any:
		items := make([]Raw, 0, len(t))
		for _, item := range t {
			r, err := RawOf(item)
			if err != nil {
				return Raw{}, err
			}
			items = append(items, r)
		}
		return Seq(items...), nil
	}
	return Raw{}, fmt.Errorf("unsupported value of type %T", v)
}

// RawFromValue turns a typed value back into its raw form, e.g. when an
// exported document is written as a new override store.
func RawFromValue(v Value) Raw {
	switch t := v.(type) {
	case Bool:
		return Scalar(RawBool, t.Text())
	case Int:
		return Scalar(RawInt, t.Text())
	case String:
		return Scalar(RawString, string(t))
	case List:
		items := make([]Raw, len(t))
		for i, s := range t {
			items[i] = Scalar(RawString, s)
		}
		return Seq(items...)
	}
	return Raw{Kind: RawNull}
}

// Describe renders the raw value for error messages.
func (r Raw) Describe() string {
	switch r.Kind {
	case RawNull:
		return "null"
	case RawString:
		return strconv.Quote(r.Text)
	case RawSeq:
		parts := make([]string, len(r.Items))
		for i, item := range r.Items {
			parts[i] = item.Describe()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return r.Text
}
