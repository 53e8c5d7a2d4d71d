package blocking

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/threadwell/blockpool/pkg/types"
)

// taskIDCounter is the global task ID counter
var taskIDCounter atomic.Uint64

// task pairs one unit of work with its shutdown behavior. A mandatory task
// must execute even while the pool is shutting down; a non-mandatory task may
// be aborted instead.
type task struct {
	runnable  types.Runnable
	mandatory bool
}

func (t task) run() {
	t.runnable.Run()
}

func (t task) abort() {
	t.runnable.Shutdown()
}

// JoinHandle resolves to the result of a spawned blocking task. It completes
// exactly once: with the callback's return value, with ErrTaskAborted if the
// task was cancelled during shutdown, with a *types.PanicError if the
// callback panicked, or with a *types.NoThreadsError if no worker could ever
// be launched to run it.
type JoinHandle[R any] struct {
	once   sync.Once
	done   chan struct{}
	result R
	err    error
}

// Done returns a channel that is closed when the handle has resolved.
func (h *JoinHandle[R]) Done() <-chan struct{} {
	return h.done
}

// Join blocks until the handle resolves or ctx is cancelled.
func (h *JoinHandle[R]) Join(ctx context.Context) (R, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

func (h *JoinHandle[R]) complete(result R, err error) {
	h.once.Do(func() {
		h.result = result
		h.err = err
		close(h.done)
	})
}

// blockingTask adapts a plain callback to the Runnable contract and routes
// its outcome onto a JoinHandle.
type blockingTask[R any] struct {
	id     uint64
	fn     func() R
	handle *JoinHandle[R]
}

// newBlockingTask wraps fn and a fresh task id into a schedulable unit.
func newBlockingTask[R any](fn func() R) (*blockingTask[R], *JoinHandle[R]) {
	handle := &JoinHandle[R]{done: make(chan struct{})}
	return &blockingTask[R]{
		id:     taskIDCounter.Add(1),
		fn:     fn,
		handle: handle,
	}, handle
}

// Run executes the callback, consuming the task. A panic in the callback is
// captured here, not in the worker loop, and resolves the handle with a
// *types.PanicError carrying the stack trace.
func (t *blockingTask[R]) Run() {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)
			var zero R
			t.handle.complete(zero, &types.PanicError{
				Value: r,
				Stack: string(buf[:n]),
			})
		}
	}()

	t.handle.complete(t.fn(), nil)
}

// Shutdown cancels the task without executing it, consuming it.
func (t *blockingTask[R]) Shutdown() {
	var zero R
	t.handle.complete(zero, types.ErrTaskAborted)
}
