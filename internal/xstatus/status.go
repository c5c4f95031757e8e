// Package xstatus provides the small status-code taxonomy used across the
// instruction-database cleanup pipeline: InvalidArgument for malformed input,
// FailedPrecondition for operations invoked out of order, NotFound for
// optional lookups, and Internal for defensive catch-alls.
package xstatus

import "fmt"

// Code identifies the category of a Status.
type Code int

const (
	// OK indicates success. The zero value so a zero Status is valid.
	OK Code = iota
	// InvalidArgument indicates malformed input: an unparsable encoding
	// string, an unknown operand name, an opcode outside the legal range.
	InvalidArgument
	// FailedPrecondition indicates an operation was invoked before a
	// required prior step ran (e.g. operand-info requested before the
	// encoding specification was parsed).
	FailedPrecondition
	// NotFound indicates an optional lookup found nothing.
	NotFound
	// Internal is a defensive catch-all for states that should not occur.
	Internal
	// Unknown is a defensive catch-all for unclassified errors.
	Unknown
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case FailedPrecondition:
		return "FAILED_PRECONDITION"
	case NotFound:
		return "NOT_FOUND"
	case Internal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Status is a code plus a human-readable message. It implements error so it
// can be returned, wrapped and compared with errors.Is/errors.As like any
// other Go error.
type Status struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (s *Status) Error() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", s.Code, s.Message)
}

// OK reports whether the status represents success.
func (s *Status) OK() bool {
	return s == nil || s.Code == OK
}

// New builds a Status with the given code and formatted message.
func New(code Code, format string, args ...any) *Status {
	return &Status{Code: code, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf builds an InvalidArgument status.
func InvalidArgumentf(format string, args ...any) *Status {
	return New(InvalidArgument, format, args...)
}

// FailedPreconditionf builds a FailedPrecondition status.
func FailedPreconditionf(format string, args ...any) *Status {
	return New(FailedPrecondition, format, args...)
}

// NotFoundf builds a NotFound status.
func NotFoundf(format string, args ...any) *Status {
	return New(NotFound, format, args...)
}

// Internalf builds an Internal status.
func Internalf(format string, args ...any) *Status {
	return New(Internal, format, args...)
}

// Is reports whether err is a *Status with the given code, so callers can
// write `errors.Is(err, xstatus.InvalidArgument)`-style checks via
// xstatus.Is(err, xstatus.InvalidArgument) (Status does not carry a sentinel
// value per code, so the standard errors.Is target trick does not apply
// directly).
func Is(err error, code Code) bool {
	s, ok := err.(*Status)
	return ok && s != nil && s.Code == code
}
