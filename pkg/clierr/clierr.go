package clierr

import "errors"

// Type categorizes a CLI-facing error for consistent messaging & state transitions.
type Type string

const (
	Auth       Type = "auth"       // missing/expired/invalid credential
	Forbidden  Type = "forbidden"  // valid session, insufficient role
	Validation Type = "validation" // bad input, rejected by client or backend
	Network    Type = "network"    // no response from the backend
	NotFound   Type = "not_found"
	Internal   Type = "internal"
)

// Error is a structured user-facing error.
type Error struct {
	Type    Type
	Message string
	Err     error // optional underlying error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// New constructs a new CLI Error.
func New(t Type, msg string, err error) *Error { return &Error{Type: t, Message: msg, Err: err} }

// TypeOf reports the classification of err, or Internal when err carries none.
func TypeOf(err error) Type {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Type
	}
	return Internal
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return TypeOf(err) == Auth }
