package settings

import (
	"fmt"
	"strings"
)

// KindUnknownKey is the error kind for keys that match no schema node.
const KindUnknownKey = "UnknownKey"

// UnknownKeyError is returned by Resolve when the key names nothing. Key is
// exactly what the caller asked for.
type UnknownKeyError struct {
	Setting     string
	Suggestions []string
	Err         error // set when the key is malformed
}

func (e *UnknownKeyError) Error() string {
	msg := fmt.Sprintf("unknown setting key %q", e.Setting)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *UnknownKeyError) Unwrap() error { return e.Err }

// Kind returns the error kind name.
func (e *UnknownKeyError) Kind() string { return KindUnknownKey }

// Key returns the requested key.
func (e *UnknownKeyError) Key() string { return e.Setting }
