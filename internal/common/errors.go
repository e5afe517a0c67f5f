// Package common defines the error kinds and constants shared by the
// bloglist server layers. Callers discriminate failures with errors.As
// against *Error and switch on its Kind.
package common

import (
	"errors"
	"fmt"
)

// Kind classifies a failure raised anywhere in the request pipeline.
// The set is closed: the REST layer translates every Kind to a fixed
// status and body, anything else is treated as unhandled.
type Kind int

const (
	// KindDuplicateUsername: the store rejected a username that already exists.
	KindDuplicateUsername Kind = iota + 1
	// KindMalformedID: a resource identifier could not be parsed.
	KindMalformedID
	// KindValidation: a field failed schema-level validation.
	KindValidation
	// KindInvalidToken: token signature or payload could not be verified.
	KindInvalidToken
	// KindCredentialLength: username or password shorter than MinCredentialLength.
	KindCredentialLength
	// KindMissingToken: a route requiring identity was called without a token.
	KindMissingToken
	// KindUnauthorized: the token verified but carries no user id.
	KindUnauthorized
	// KindForbidden: the caller does not own the resource.
	KindForbidden
	// KindNotFound: the addressed resource or user does not exist.
	KindNotFound
	// KindInvalidCredentials: login with unknown username or wrong password.
	KindInvalidCredentials
	// KindUnknownEndpoint: no route matched the request.
	KindUnknownEndpoint
)

var kindNames = map[Kind]string{
	KindDuplicateUsername:  "duplicate username",
	KindMalformedID:        "malformed id",
	KindValidation:         "validation",
	KindInvalidToken:       "invalid token",
	KindCredentialLength:   "credential length",
	KindMissingToken:       "missing token",
	KindUnauthorized:       "unauthorized",
	KindForbidden:          "forbidden",
	KindNotFound:           "not found",
	KindInvalidCredentials: "invalid credentials",
	KindUnknownEndpoint:    "unknown endpoint",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type carrying a Kind. Message is the text
// surfaced to the caller where the kind has a caller-visible message
// (validation); Err is the optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind alone, so sentinels such as
// ErrNotFound match any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// KindOf returns the Kind of err, or 0 when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Sentinels for errors.Is comparisons.
var (
	ErrDuplicateUsername  = &Error{Kind: KindDuplicateUsername}
	ErrMalformedID        = &Error{Kind: KindMalformedID}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
	ErrCredentialLength   = &Error{Kind: KindCredentialLength}
	ErrMissingToken       = &Error{Kind: KindMissingToken}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrUnknownEndpoint    = &Error{Kind: KindUnknownEndpoint}
)

// NewError builds an *Error of the given kind wrapping cause (may be nil).
func NewError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// ValidationError builds a KindValidation error whose message is shown to the caller.
func ValidationError(msg string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: cause}
}
