// Package fault defines the error taxonomy shared by the domain packages.
// Every rejected request maps to one of the codes below; the HTTP layer
// turns the code into a status and the message into the response body.
package fault

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeForbidden         Code = "FORBIDDEN"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
)

type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the taxonomy code from err, unwrapping as needed.
// ok is false for unexpected errors (storage failures etc).
func CodeOf(err error) (code Code, ok bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code, true
	}
	return "", false
}

func IsCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
