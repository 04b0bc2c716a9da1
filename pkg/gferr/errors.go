// Package gferr defines the engine's error taxonomy. Every failure the
// facade surfaces is a *gferr.Error carrying a Kind callers can test with
// errors.Is against the package-level sentinels.
package gferr

import "fmt"

// Kind enumerates the error taxonomy.
type Kind int

const (
	InputSizeMismatch Kind = iota
	SlackDisconnected
	SlackInvalid
	DisconnectedBusReferenced
	JacobianSingular
	DcSingular
	MaxIterExceeded
)

func (k Kind) String() string {
	switch k {
	case InputSizeMismatch:
		return "InputSizeMismatch"
	case SlackDisconnected:
		return "SlackDisconnected"
	case SlackInvalid:
		return "SlackInvalid"
	case DisconnectedBusReferenced:
		return "DisconnectedBusReferenced"
	case JacobianSingular:
		return "JacobianSingular"
	case DcSingular:
		return "DcSingular"
	case MaxIterExceeded:
		return "MaxIterExceeded"
	default:
		return "Unknown"
	}
}

// Error is a failure kind plus a human-readable message, optionally
// wrapping an underlying cause (e.g. the sparse library's factorization
// error).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so errors.Is(err, gferr.ErrSlackDisconnected) works
// regardless of the message/wrapped cause attached to err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrInputSizeMismatch        = &Error{Kind: InputSizeMismatch}
	ErrSlackDisconnected        = &Error{Kind: SlackDisconnected}
	ErrSlackInvalid             = &Error{Kind: SlackInvalid}
	ErrDisconnectedBusReferenced = &Error{Kind: DisconnectedBusReferenced}
	ErrJacobianSingular         = &Error{Kind: JacobianSingular}
	ErrDcSingular               = &Error{Kind: DcSingular}
	ErrMaxIterExceeded          = &Error{Kind: MaxIterExceeded}
)

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}
