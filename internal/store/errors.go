package store

import "fmt"

// KindPersistenceError is the error kind of every store failure.
const KindPersistenceError = "PersistenceError"

// Error reports an override store that cannot be read, parsed or written.
type Error struct {
	Path    string
	Setting string // offending key, when one entry is at fault
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("override store %s: %s", e.Path, e.Message)
	if e.Setting != "" {
		msg = fmt.Sprintf("override store %s: %s: %s", e.Path, e.Setting, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Kind returns the error kind name.
func (e *Error) Kind() string { return KindPersistenceError }

// Key returns the offending setting key.
func (e *Error) Key() string { return e.Setting }
