package output

import (
	"errors"
	"fmt"

	"github.com/raphi011/ynh/internal/document"
)

// KindFormatMismatch is the error kind for documents the requested format
// cannot express.
const KindFormatMismatch = "FormatMismatch"

// FormatMismatch is returned when plain output is asked for a document
// with more than one entry.
type FormatMismatch struct {
	Setting string
	Entries int
}

func (e *FormatMismatch) Error() string {
	msg := fmt.Sprintf("plain output needs a single value, got %d entries", e.Entries)
	if e.Setting != "" {
		msg = fmt.Sprintf("%q: %s; use --json or --yaml", e.Setting, msg)
	}
	return msg
}

// Kind returns the error kind name.
func (e *FormatMismatch) Kind() string { return KindFormatMismatch }

// Key returns the requested key.
func (e *FormatMismatch) Key() string { return e.Setting }

// ErrorObject is the structured form of a failed command.
type ErrorObject struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Key     string `json:"key,omitempty"`
}

// kinded is implemented by every engine error.
type kinded interface {
	error
	Kind() string
}

// NewErrorObject describes err. Errors without a kind are reported as
// "Error".
func NewErrorObject(err error) ErrorObject {
	obj := ErrorObject{Error: "Error", Message: err.Error()}
	var k kinded
	if errors.As(err, &k) {
		obj.Error = k.Kind()
		if keyed, ok := k.(interface{ Key() string }); ok {
			obj.Key = keyed.Key()
		}
	}
	return obj
}

// Error writes the error object for err as a single JSON line.
func (p *Printer) Error(err error) error {
	data, jerr := document.Marshal(NewErrorObject(err))
	if jerr != nil {
		return jerr
	}
	_, werr := fmt.Fprintf(p.w, "%s\n", data)
	return werr
}
