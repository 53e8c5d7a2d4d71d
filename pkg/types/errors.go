// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrShuttingDown indicates work was submitted after pool shutdown began
	ErrShuttingDown = errors.New("blocking pool is shutting down")

	// ErrTaskAborted indicates a task was aborted before it could execute
	ErrTaskAborted = errors.New("task aborted before execution")
)

// NoThreadsError indicates that no worker could be launched for a pool with
// zero live workers, so queued work will never be serviced.
type NoThreadsError struct {
	// Cause is the underlying launch error
	Cause error
}

// Error implements the error interface
func (e *NoThreadsError) Error() string {
	return fmt.Sprintf("no worker threads available: %v", e.Cause)
}

// Unwrap returns the underlying error
func (e *NoThreadsError) Unwrap() error {
	return e.Cause
}

// PanicError wraps a recovered panic value and its stack trace.
type PanicError struct {
	Value interface{}
	Stack string
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v\n%s", e.Value, e.Stack)
}
