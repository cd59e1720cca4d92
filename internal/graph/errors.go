package graph

import (
	"errors"

	"github.com/fairyhunter13/supplysight/internal/model"
)

// CodeInternal tags errors that are not part of the domain taxonomy.
const CodeInternal = "INTERNAL_SERVER_ERROR"

// Error is what resolvers return. The executor keeps it as the original
// error, so Extensions ends up in the response under "extensions".
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.err }

// Code returns the machine-readable error class.
func (e *Error) Code() string { return e.code }

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// wrapError converts a service error into a resolver error. Unknown errors
// are reported without their text.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var coded model.Coded
	if errors.As(err, &coded) {
		return &Error{code: string(coded.Code()), message: coded.Error(), err: err}
	}
	return &Error{code: CodeInternal, message: "internal server error", err: err}
}
