package domain

import "errors"

// Kind is the closed set of failure classes the HTTP boundary knows how to
// render.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to the client; Err
// keeps the underlying cause for logs and errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithCause attaches the underlying reason to e.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Internal failure reasons. Callers match them with errors.Is; clients never
// see them.
var (
	ErrTokenMissing    = errors.New("session token missing")
	ErrTokenMalformed  = errors.New("session token malformed")
	ErrTokenSignature  = errors.New("session token signature invalid")
	ErrTokenExpired    = errors.New("session token expired")
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrRecoveryInvalid = errors.New("recovery token invalid")
	ErrRecoveryExpired = errors.New("recovery token expired")
	ErrBadCredentials  = errors.New("credentials mismatch")
)

// Client-facing messages.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoginRequired      = "Login first to access this resource"
	MsgEmailExists        = "Email already exists"
	MsgPasswordRequired   = "Password is required"
	MsgPasswordTooLong    = "Your password cannot exceed 72 bytes"
	MsgEmailAndPassword   = "Please enter email & password"
	MsgRecoveryInvalid    = "Password reset token is invalid"
	MsgRecoveryExpired    = "Password reset token has expired"
	MsgOldPassword        = "Old password is incorrect"
	MsgTooManyAttempts    = "Too many failed login attempts, try again later"
	MsgInternal           = "Internal server error"
)

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error { return newError(KindValidation, msg, nil) }

func Unauthenticated(msg string, cause error) *Error {
	return newError(KindAuthentication, msg, cause)
}

func Forbidden(msg string) *Error { return newError(KindAuthorization, msg, nil) }

func Conflict(msg string, cause error) *Error { return newError(KindConflict, msg, cause) }

func NotFound(msg string, cause error) *Error { return newError(KindNotFound, msg, cause) }

func RateLimited(msg string) *Error { return newError(KindRateLimited, msg, nil) }

// Internal wraps an unexpected failure; the client only sees MsgInternal.
func Internal(cause error) *Error { return newError(KindInternal, MsgInternal, cause) }

// KindOf classifies err. Anything that is not a *Error is internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
