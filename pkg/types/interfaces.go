// Package types defines core interfaces
package types

// Runnable is one unit of blocking work owned by the pool queue. It is
// consumed exactly once: either Run executes it to completion, or Shutdown
// cancels it without executing.
type Runnable interface {
	// Run executes the work to completion
	Run()
	// Shutdown cancels the work without executing it
	Shutdown()
}
