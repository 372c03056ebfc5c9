package fault

import (
	"errors"
	"fmt"
)

type Code string

const (
	UnknownCode  Code = "unknown"
	NotFoundCode Code = "not_found"
	BadInputCode Code = "bad_input"
)

// FieldErrorsMetadata maps an input field to the problems found in it.
type FieldErrorsMetadata map[string][]string

type Fault struct {
	code     Code
	message  string
	metadata any
	original error
}

func New(code Code, message string) Fault {
	return Fault{
		code:    code,
		message: message,
	}
}

func (f Fault) WithMetadata(metadata any) Fault {
	e := f
	e.metadata = metadata
	return e
}

func (f Fault) WithOriginal(original error) Fault {
	e := f
	e.original = original
	return e
}

func (f Fault) Code() Code {
	return f.code
}

func (f Fault) Message() string {
	return f.message
}

func (f Fault) Metadata() any {
	return f.metadata
}

func (f Fault) Original() error {
	return f.original
}

func (f Fault) Unwrap() error {
	return f.original
}

func (f Fault) Error() string {
	msg := f.message
	if msg == "" {
		msg = string(f.code)
	}

	if md, ok := f.metadata.(FieldErrorsMetadata); ok && len(md) > 0 {
		msg = fmt.Sprintf("%s %v", msg, map[string][]string(md))
	}

	if f.original != nil {
		return fmt.Sprintf("%s: %v", msg, f.original)
	}
	return msg
}

// HasCode reports whether err is a Fault with the given code.
func HasCode(err error, code Code) bool {
	var f Fault
	if !errors.As(err, &f) {
		return false
	}
	return f.code == code
}
