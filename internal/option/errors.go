package option

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported to callers.
const (
	KindTypeMismatch        = "TypeMismatch"
	KindConstraintViolation = "ConstraintViolation"
)

// TypeMismatch is returned when a raw value cannot be read as the
// declared type.
type TypeMismatch struct {
	Setting  string // dotted key, empty until attached by the caller
	Expected Type
	Got      string
}

func (e *TypeMismatch) Error() string {
	msg := fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	if e.Setting == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Setting, msg)
}

// Kind returns the error kind name.
func (e *TypeMismatch) Kind() string { return KindTypeMismatch }

// Key returns the offending setting key.
func (e *TypeMismatch) Key() string { return e.Setting }

// ConstraintViolation is returned when a value has the right type but
// fails a choice, pattern, range or format constraint.
type ConstraintViolation struct {
	Setting    string
	Constraint string // "choices", "pattern", "min", "max", "format"
	Value      string
	Message    string
}

func (e *ConstraintViolation) Error() string {
	msg := fmt.Sprintf("value %s violates %s: %s", e.Value, e.Constraint, e.Message)
	if e.Setting == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Setting, msg)
}

// Kind returns the error kind name.
func (e *ConstraintViolation) Kind() string { return KindConstraintViolation }

// Key returns the offending setting key.
func (e *ConstraintViolation) Key() string { return e.Setting }

// WithKey attaches the dotted key to a coercion error. Other errors are
// returned unchanged.
func WithKey(err error, key string) error {
	var tm *TypeMismatch
	if errors.As(err, &tm) {
		tm.Setting = key
		return tm
	}
	var cv *ConstraintViolation
	if errors.As(err, &cv) {
		cv.Setting = key
		return cv
	}
	return err
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
