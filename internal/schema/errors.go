package schema

import "fmt"

// KindSchemaError is the error kind of every load or validation failure.
const KindSchemaError = "SchemaError"

// Error reports a schema that cannot be parsed or violates a structural
// rule. Setting is the dotted key of the offending node, if any.
type Error struct {
	Path    string
	Setting string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Setting != "" {
		msg = e.Setting + ": " + msg
	}
	if e.Path != "" {
		msg = fmt.Sprintf("schema %s: %s", e.Path, msg)
	} else {
		msg = "schema: " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Kind returns the error kind name.
func (e *Error) Kind() string { return KindSchemaError }

// Key returns the offending node key.
func (e *Error) Key() string { return e.Setting }

func errorf(key, format string, args ...any) *Error {
	return &Error{Setting: key, Message: fmt.Sprintf(format, args...)}
}
