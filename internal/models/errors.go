package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by the store or the dispatcher wraps
// exactly one of them and can be matched with errors.Is.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownCommand = errors.New("unknown command")
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotFound       = errors.New("not found")
	ErrInvalidIndex   = errors.New("invalid index")
	ErrCorruptStorage = errors.New("corrupt storage")
	ErrIOError        = errors.New("io error")
)

// Error is a user-facing failure of a given kind.
type Error struct {
	Kind    error
	Message string
	Err     error // underlying cause, if any
}

// Errorf returns an *Error of kind with a formatted message.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapErrorf is like Errorf but also records the underlying cause.
func WrapErrorf(kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// SpaceNotFound is the failure for any space-scoped command on a missing space.
func SpaceNotFound(name string) *Error {
	return Errorf(ErrNotFound, "Space %s does not exist", name)
}

// SpaceExists is the failure for creating a space whose name is taken.
func SpaceExists(name string) *Error {
	return Errorf(ErrAlreadyExists, "Space %s already exists", name)
}

// InvalidIndex is the failure for a memory position outside the space.
func InvalidIndex(index, space string) *Error {
	return Errorf(ErrInvalidIndex, "Invalid index %s for space %s", index, space)
}
