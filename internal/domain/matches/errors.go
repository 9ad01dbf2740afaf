package matches

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable failure category surfaced to clients.
type Kind string

const (
	KindInvalidRequest Kind = "INVALID_REQUEST"
	KindMatchNotFound  Kind = "MATCH_NOT_FOUND"
	KindMatchCompleted Kind = "MATCH_COMPLETED"
	KindUnknownAction  Kind = "UNKNOWN_ACTION"
	KindNoActiveSet    Kind = "NO_ACTIVE_SET"
	KindNothingToUndo  Kind = "NOTHING_TO_UNDO"
	KindAllOut         Kind = "ALL_OUT"
	KindConflict       Kind = "VERSION_CONFLICT"
	KindPersistence    Kind = "PERSISTENCE_ERROR"
)

// Error carries a failure kind plus a message fit for rendering inline.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind so callers can compare against the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrMatchNotFound  = &Error{Kind: KindMatchNotFound}
	ErrMatchCompleted = &Error{Kind: KindMatchCompleted}
	ErrUnknownAction  = &Error{Kind: KindUnknownAction}
	ErrNoActiveSet    = &Error{Kind: KindNoActiveSet}
	ErrNothingToUndo  = &Error{Kind: KindNothingToUndo}
	ErrAllOut         = &Error{Kind: KindAllOut}
	ErrConflict       = &Error{Kind: KindConflict}
	ErrPersistence    = &Error{Kind: KindPersistence}
)

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Invalid is shorthand for an INVALID_REQUEST failure.
func Invalid(format string, args ...any) *Error {
	return Errorf(KindInvalidRequest, format, args...)
}

// NotFound reports a match id that does not resolve.
func NotFound(id string) *Error {
	return Errorf(KindMatchNotFound, "match %q not found", id)
}

// PersistenceFailure wraps a storage error.
func PersistenceFailure(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: op + " failed", Err: err}
}

// AsError attempts to unwrap an error into an *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the failure kind, defaulting to PERSISTENCE_ERROR for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindPersistence
}
