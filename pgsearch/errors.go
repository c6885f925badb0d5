package pgsearch

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrConfiguration ErrorKind = "configuration"
	ErrArgumentShape ErrorKind = "argument_shape"
	ErrUnknownScope  ErrorKind = "unknown_scope"
	ErrSQL           ErrorKind = "sql"
	ErrIO            ErrorKind = "io"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Key     string // offending option key, if any
	Value   string // offending option value, if any
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	switch {
	case e.Key != "" && e.Value != "":
		base = fmt.Sprintf("%s (key=%s, value=%s)", base, e.Key, e.Value)
	case e.Key != "":
		base = fmt.Sprintf("%s (key=%s)", base, e.Key)
	case e.Value != "":
		base = fmt.Sprintf("%s (value=%s)", base, e.Value)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// ConfigurationError reports an invalid search configuration. value may be empty.
func ConfigurationError(key, msg, value string) *Error {
	return &Error{Kind: ErrConfiguration, Message: msg, Key: key, Value: value}
}

func ArgumentShapeError(msg string) *Error {
	return &Error{Kind: ErrArgumentShape, Message: msg}
}

func UnknownScopeError(name string) *Error {
	return &Error{Kind: ErrUnknownScope, Message: "unknown search scope", Value: name}
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
