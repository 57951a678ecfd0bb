package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures so transport layers can map them uniformly.
type Kind uint8

const (
	Unknown Kind = iota
	NotFound
	Forbidden
	Conflict
	ResourceExhausted
	InvalidArgument
	InvalidState
	Unauthenticated
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case ResourceExhausted:
		return "resource_exhausted"
	case InvalidArgument:
		return "invalid_argument"
	case InvalidState:
		return "invalid_state"
	case Unauthenticated:
		return "unauthenticated"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{kind: kind, msg: msg, err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return Unknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
