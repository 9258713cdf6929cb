// Package goerror carries a client-safe message and a stable code alongside
// the underlying error, so transports can render failures without leaking
// internals.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned by repositories when a conditional write loses.
	ErrConflict = errors.New("resource conflict")
)

type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeServer:
		return "server"
	case TypeBusiness:
		return "business"
	case TypeValidation:
		return "validation"
	}
	return "unknown"
}

type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeUnauthorized
	// CodeAlreadyExists rejects creating something that is already settled,
	// such as signing up with a verified email.
	CodeAlreadyExists
)

var codeInfo = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:      {"INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat: {"INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:  {"INVALID_INPUT", http.StatusBadRequest},
	CodeNotFound:      {"NOT_FOUND", http.StatusNotFound},
	CodeConflict:      {"CONFLICT", http.StatusConflict},
	CodeUnauthorized:  {"UNAUTHORIZED", http.StatusUnauthorized},
	CodeAlreadyExists: {"ALREADY_EXISTS", http.StatusBadRequest},
}

func (c Code) String() string {
	if info, ok := codeInfo[c]; ok {
		return info.name
	}
	return codeInfo[CodeInternal].name
}

// Error is the application error. msg is what clients see; err is kept for
// logs and errors.Is/As and is never rendered.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.err != nil && e.msg != "":
		return e.msg + ": " + e.err.Error()
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	}
	return e.errType.String() + " error"
}

// String is the verbose form used in debug logs.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v", e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string               { return e.msg }
func (e *Error) Type() Type                { return e.errType }
func (e *Error) Code() Code                { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error             { return e.err }

func (e *Error) StatusCode() int {
	if info, ok := codeInfo[e.code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Is reports whether err is, or wraps, an *Error with the given code.
func Is(err error, code Code) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.code == code
}

// NewServer hides err behind a generic message. A non-empty msg replaces
// the generic one when the client needs a hint, e.g. a delivery failure.
func NewServer(err error, msg ...string) error {
	text := "Internal server error"
	if len(msg) > 0 && msg[0] != "" {
		text = msg[0]
	}
	return &Error{err: err, msg: text, errType: TypeServer, code: CodeInternal}
}

func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput wraps a validator error, or builds field errors from
// key/value pairs when err is nil. An odd number of pairs is a malformed
// request.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 && msgs[0] != "" {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}
