// Package errors provides the error taxonomy shared by the storage layer,
// the menu and the HTTP API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an error.
type Kind string

const (
	KindConnection  Kind = "CONNECTION_ERROR"
	KindStatement   Kind = "STATEMENT_ERROR"
	KindInput       Kind = "INPUT_ERROR"
	KindNotFound    Kind = "NOT_FOUND"
	KindInternal    Kind = "INTERNAL_ERROR"
	KindRateLimited Kind = "RATE_LIMITED"
)

// Error is a classified error carrying the failing operation and its cause.
type Error struct {
	Kind    Kind   `json:"code"`
	Op      string `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInput:
		return http.StatusBadRequest
	case KindConnection:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrNilConnection is the cause attached to operations attempted without an
// open database connection.
var ErrNilConnection = stderrors.New("no open database connection")

// Connection creates a connection error for op.
func Connection(op string, err error) *Error {
	return &Error{Kind: KindConnection, Op: op, Message: "database connection failed", Err: err}
}

// Statement creates a statement error for op.
func Statement(op string, err error) *Error {
	return &Error{Kind: KindStatement, Op: op, Message: "statement failed", Err: err}
}

// Input creates an input error with a user-facing message.
func Input(message string) *Error {
	return &Error{Kind: KindInput, Message: message}
}

// NotFound creates a not found error with a custom message.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
