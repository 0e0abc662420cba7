// Package gserror defines the error kinds surfaced by graphsurge. Every
// failure is rendered as a single line tagged by its kind.
package gserror

import (
	"errors"
	"fmt"
)

// Kind classifies an error per the system's taxonomy.
type Kind string

const (
	KindInput       Kind = "InputError"
	KindParsing     Kind = "ParsingError"
	KindCollection  Kind = "CollectionError"
	KindComputation Kind = "ComputationError"
	KindExecution   Kind = "ExecutionError"
	KindIO          Kind = "IOError"
	KindSerde       Kind = "SerdeError"
	KindArithmetic  Kind = "ArithmeticError"
)

// Error is a kind-tagged error, optionally wrapping a cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a kind-tagged error from a format string.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var gs *Error
	if errors.As(err, &gs) {
		return gs.Kind == kind
	}
	return false
}

func Input(format string, args ...any) *Error       { return New(KindInput, format, args...) }
func Collection(format string, args ...any) *Error  { return New(KindCollection, format, args...) }
func Computation(format string, args ...any) *Error { return New(KindComputation, format, args...) }
func Execution(format string, args ...any) *Error   { return New(KindExecution, format, args...) }
func Serde(format string, args ...any) *Error       { return New(KindSerde, format, args...) }

// IOFailure wraps a filesystem error with its path for the one-line report.
func IOFailure(err error, op, path string) *Error {
	return Wrap(KindIO, err, "could not %s '%s'", op, path)
}

// CollectionExists reports a duplicate name in a store.
func CollectionExists(name string) *Error {
	return Collection("collection '%s' already exists in store", name)
}

// CollectionMissing reports a lookup of a name never registered.
func CollectionMissing(name string) *Error {
	return Collection("collection '%s' has not been created yet", name)
}

// PropertyCount reports a computation invoked with the wrong number of
// properties.
func PropertyCount(computation string, required int, names []string, found int) *Error {
	noun := "properties"
	if required == 1 {
		noun = "property"
	}
	return Input("%s needs %d %s %v, but found %d properties", computation, required, noun, names, found)
}

// PropertyMissing reports a required property absent from the map.
func PropertyMissing(computation, property string, found []string) *Error {
	return Input("%s needs property '%s' but found %v", computation, property, found)
}

// PropertyType reports a property of the wrong kind.
func PropertyType(computation, property, expected, found string) *Error {
	return Input("%s property '%s' should be a %s but found '%s'", computation, property, expected, found)
}

// ResultsMismatch is returned by compare mode when the incremental and
// individual result sets disagree; the message carries capped samples.
func ResultsMismatch(summary string) *Error {
	return New(KindComputation, "results do not match: %s", summary)
}
