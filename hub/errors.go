package hub

import (
	"errors"
)

var (
	// ErrInitializer wraps failures of an initializer passed to NewFunc or
	// NewPromiseFunc. No hub is created when it is returned.
	ErrInitializer = errors.New("hub: initializer failed")
	// ErrCompute wraps failures of a computed hub's transform. The computed
	// value is left at its last good state.
	ErrCompute = errors.New("hub: compute failed")
	// ErrListenerPanic is reported to the error handler when a listener panics.
	ErrListenerPanic = errors.New("hub: listener panicked")
	// ErrActionPanic is stored as the promise error when an action panics.
	ErrActionPanic = errors.New("hub: action panicked")
)

// ErrorHandler receives failures that are contained rather than returned,
// such as panicking listeners.
type ErrorHandler func(hub string, err error)
