package option

import (
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Choice is one allowed value of a select or tags option. Label is the
// human-readable text shown next to the value; it may be empty.
type Choice struct {
	Value string
	Label string
}

// Pattern is a regular expression constraint with an optional message.
type Pattern struct {
	Source string
	Error  string
	re     *regexp.Regexp
}

// CompilePattern compiles a pattern constraint.
func CompilePattern(source, errorText string) (*Pattern, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", source, err)
	}
	return &Pattern{Source: source, Error: errorText, re: re}, nil
}

// Match reports whether s satisfies the pattern.
func (p *Pattern) Match(s string) bool {
	return p.re.MatchString(s)
}

// Rules holds everything needed to coerce and validate a value.
type Rules struct {
	Type     Type
	Optional bool
	Choices  []Choice
	Pattern  *Pattern
	Min      *int64
	Max      *int64
}

// ChoiceValues returns the allowed values in declaration order.
func (r Rules) ChoiceValues() []string {
	values := make([]string, len(r.Choices))
	for i, c := range r.Choices {
		values[i] = c.Value
	}
	return values
}

var (
	truthy = []string{"1", "yes", "y", "true", "t", "on"}
	falsy  = []string{"0", "no", "n", "false", "f", "off"}

	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Coerce interprets raw as a value of rules.Type and checks its
// constraints. It returns *TypeMismatch when raw cannot be read as the
// type and *ConstraintViolation when a constraint fails.
func Coerce(raw Raw, rules Rules) (Value, error) {
	if rules.Type.DisplayOnly() {
		return Null{}, nil
	}

	if raw.Kind == RawNull {
		switch {
		case rules.Type == TypeTags:
			return List{}, nil
		case rules.Optional:
			return Null{}, nil
		}
		return nil, mismatch(rules.Type, raw)
	}

	var (
		v   Value
		err error
	)
	switch {
	case rules.Type == TypeBoolean:
		v, err = coerceBool(raw)
	case rules.Type == TypeNumber:
		v, err = coerceInt(raw)
	case rules.Type == TypeTags:
		v, err = coerceTags(raw)
	case rules.Type.stringLike():
		v, err = coerceString(raw, rules.Type)
	default:
		return nil, fmt.Errorf("unsupported option type %q", rules.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := rules.Check(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Merge picks the effective value of an option: a stored value wins when
// present and valid, an invalid stored value is an error, and an absent one
// falls back to the default. Without a default the value is Null, or an
// empty List for tags, and a stored null counts as absent.
func Merge(def Value, stored Raw, hasStored bool, rules Rules) (Value, error) {
	_, nullDefault := def.(Null)
	noDefault := def == nil || nullDefault
	if hasStored && !(noDefault && stored.Kind == RawNull) {
		return Coerce(stored, rules)
	}
	if !noDefault {
		return def, nil
	}
	if rules.Type == TypeTags {
		return List{}, nil
	}
	return Null{}, nil
}

func mismatch(t Type, raw Raw) *TypeMismatch {
	got := raw.Kind.String()
	if raw.Kind != RawNull {
		got += " " + raw.Describe()
	}
	return &TypeMismatch{Expected: t, Got: got}
}

func coerceBool(raw Raw) (Value, error) {
	switch raw.Kind {
	case RawBool, RawInt, RawString:
		s := strings.ToLower(strings.TrimSpace(raw.Text))
		if slices.Contains(truthy, s) {
			return Bool(true), nil
		}
		if slices.Contains(falsy, s) {
			return Bool(false), nil
		}
	}
	return nil, mismatch(TypeBoolean, raw)
}

func coerceInt(raw Raw) (Value, error) {
	switch raw.Kind {
	case RawInt:
		// YAML integers may carry a 0x, 0o or 0b prefix.
		n, err := strconv.ParseInt(strings.TrimSpace(raw.Text), 0, 64)
		if err == nil {
			return Int(n), nil
		}
	case RawString:
		n, err := strconv.ParseInt(strings.TrimSpace(raw.Text), 10, 64)
		if err == nil {
			return Int(n), nil
		}
	case RawFloat:
		f, err := strconv.ParseFloat(raw.Text, 64)
		if err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			return Int(int64(f)), nil
		}
	}
	return nil, mismatch(TypeNumber, raw)
}

func coerceString(raw Raw, t Type) (Value, error) {
	if raw.Kind == RawSeq {
		return nil, mismatch(t, raw)
	}
	return String(raw.Text), nil
}

func coerceTags(raw Raw) (Value, error) {
	switch raw.Kind {
	case RawSeq:
		tags := make(List, 0, len(raw.Items))
		for _, item := range raw.Items {
			if item.Kind == RawSeq || item.Kind == RawNull {
				return nil, mismatch(TypeTags, raw)
			}
			tags = append(tags, item.Text)
		}
		return tags, nil
	case RawString:
		tags := List{}
		for _, part := range strings.Split(raw.Text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
		return tags, nil
	}
	return List{raw.Text}, nil
}

// Validate checks that an already typed value is the variant rules.Type
// stores and that it satisfies the constraints. It is used for defaults
// built in code rather than read from a file.
func (r Rules) Validate(v Value) error {
	if v == nil {
		v = Null{}
	}
	var ok bool
	switch v.(type) {
	case Null:
		ok = r.Optional || r.Type.DisplayOnly()
	case Bool:
		ok = r.Type == TypeBoolean
	case Int:
		ok = r.Type == TypeNumber
	case String:
		ok = r.Type.stringLike()
	case List:
		ok = r.Type == TypeTags
	}
	if !ok {
		return mismatch(r.Type, RawFromValue(v))
	}
	return r.Check(v)
}

// Check validates an already typed value against the bounds and choices in rules.
func (r Rules) Check(v Value) error {
	switch t := v.(type) {
	case String:
		return r.checkString(string(t))
	case Int:
		return r.checkRange(int64(t))
	case List:
		for _, item := range t {
			if err := r.checkString(item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r Rules) checkString(str string) error {
	if str == "" && r.Optional {
		return nil
	}
	if len(r.Choices) > 0 && !slices.Contains(r.ChoiceValues(), str) {
		return &ConstraintViolation{
			Constraint: "choices",
			Value:      strconv.Quote(str),
			Message:    "must be " + formatOptions(r.ChoiceValues()),
		}
	}
	if r.Pattern != nil && !r.Pattern.Match(str) {
		msg := r.Pattern.Error
		if msg == "" {
			msg = fmt.Sprintf("must match %q", r.Pattern.Source)
		}
		return &ConstraintViolation{Constraint: "pattern", Value: strconv.Quote(str), Message: msg}
	}
	switch r.Type {
	case TypePath:
		if !strings.HasPrefix(str, "~") && !filepath.IsAbs(str) {
			return &ConstraintViolation{Constraint: "format", Value: strconv.Quote(str), Message: "path must be absolute or start with ~"}
		}
	case TypeEmail:
		if !emailRegex.MatchString(str) {
			return &ConstraintViolation{Constraint: "format", Value: strconv.Quote(str), Message: "not a valid email address"}
		}
	case TypeURL:
		u, err := url.Parse(str)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ConstraintViolation{Constraint: "format", Value: strconv.Quote(str), Message: "not a valid URL"}
		}
	}
	return nil
}

func (r Rules) checkRange(n int64) error {
	if r.Min != nil && n < *r.Min {
		return &ConstraintViolation{
			Constraint: "min",
			Value:      strconv.FormatInt(n, 10),
			Message:    fmt.Sprintf("must be at least %d", *r.Min),
		}
	}
	if r.Max != nil && n > *r.Max {
		return &ConstraintViolation{
			Constraint: "max",
			Value:      strconv.FormatInt(n, 10),
			Message:    fmt.Sprintf("must be at most %d", *r.Max),
		}
	}
	return nil
}
