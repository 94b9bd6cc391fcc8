// Package domainerrors carries a transport-neutral failure category through
// the service layer. Handlers map Code to a status exactly once.
package domainerrors

import "errors"

type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_failed"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal_error"
	CodeTimeout      Code = "timeout"

	// Authentication boundary codes.
	CodeInvalidToken  Code = "invalid_token"  // token malformed, tampered with, expired or signed with another secret
	CodeHashing       Code = "hashing_failed" // salt/hash generation failed or stored hash is malformed
	CodeMisconfigured Code = "misconfigured"  // required server configuration (e.g. signing secret) is missing
)

// Error is a coded failure. Message is safe to show a client for 4xx codes.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so
// errors.Is(err, &Error{Code: CodeNotFound}) works without a sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches msg to err. A code already present in err's chain wins over code.
func Wrap(err error, code Code, msg string) error {
	if inner, ok := as(err); ok {
		code = inner.Code
	}
	return &Error{Code: code, Message: msg, Err: err}
}

func HasCode(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// CodeOf returns the outermost code in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return CodeInternal
}

// Message returns the outermost domain message in err's chain, or "".
func Message(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return ""
}

func as(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
