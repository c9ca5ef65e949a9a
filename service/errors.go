// errors.go - Client-facing error taxonomy

package service

import (
	"errors"

	"store-manager/auth"
)

// Kind classifies service errors. Handlers map kinds to HTTP status codes.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindNotFound:
		return "NotFoundError"
	case KindConflict:
		return "ConflictError"
	default:
		return "UnknownError"
	}
}

// Error is a client-facing failure. Message is safe to return to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error     { return newError(KindValidation, msg, nil) }
func Authentication(msg string) *Error { return newError(KindAuthentication, msg, nil) }
func Authorization(msg string) *Error  { return newError(KindAuthorization, msg, nil) }
func NotFound(msg string) *Error       { return newError(KindNotFound, msg, nil) }
func Conflict(msg string) *Error       { return newError(KindConflict, msg, nil) }

// KindOf reports the Kind of err if it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// fromDecision converts a gate denial into an Authentication or Authorization error.
func fromDecision(d auth.Decision) error {
	if d.Allowed {
		return nil
	}
	if d.Unauthenticated {
		return Authentication(d.Reason)
	}
	return Authorization(d.Reason)
}
