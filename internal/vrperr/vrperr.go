// Package vrperr defines the discriminated error taxonomy shared by every
// component in the VRP service and the HTTP status codes it maps to.
package vrperr

import "fmt"

// Kind is one of the external error tags a caller can act on.
type Kind string

const (
	InvalidInput Kind = "invalid_input"
	NotFound     Kind = "not_found"
	Malformed    Kind = "malformed"
	Infeasible   Kind = "infeasible"
	Timeout      Kind = "timeout"
	Internal     Kind = "internal_error"
)

// Status returns the HTTP status code for a Kind.
func (k Kind) Status() int {
	switch k {
	case InvalidInput:
		return 400
	case NotFound:
		return 404
	case Malformed:
		return 400
	case Infeasible:
		return 422
	case Timeout:
		return 500
	default:
		return 500
	}
}

// Error is the internal representation of a tagged failure. It never leaks
// past the handler layer without being mapped to the {error, message,
// details} envelope of §6/§7.
type Error struct {
	Kind    Kind
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(k Kind, message string) *Error { return &Error{Kind: k, Message: message} }

func Wrap(k Kind, message, details string) *Error {
	return &Error{Kind: k, Message: message, Details: details}
}

func NewInvalidInput(msg string) *Error { return New(InvalidInput, msg) }
func NewNotFound(msg string) *Error     { return New(NotFound, msg) }
func NewMalformed(msg string) *Error    { return New(Malformed, msg) }
func NewInfeasible(msg, details string) *Error {
	return Wrap(Infeasible, msg, details)
}
func NewTimeout(msg string) *Error { return New(Timeout, msg) }
func NewInternal(msg string) *Error {
	return New(Internal, msg)
}

// As extracts an *Error from err, or wraps it as Internal if it isn't one.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Kind: Internal, Message: "internal_error", Details: err.Error()}
}
