/*
Package blocking provides a bounded, dynamically-scaled worker pool for
offloading blocking operations.

# Overview

The pool launches worker goroutines on demand, up to a configured cap, and
lets idle workers exit after a keep-alive period. Work is submitted through
two entry points with different completion guarantees:

  - SpawnBlocking schedules non-mandatory work: it may be cancelled if the
    pool shuts down before the work runs.
  - SpawnMandatoryBlocking schedules mandatory work: once accepted it is
    guaranteed to execute, even if shutdown begins before it is picked up.

# Pool

The pool owns all shared state under a single mutex: the FIFO task queue,
the shutdown flag, and the worker registry. Worker wakeups use a buffered
notification channel that is only ever sent to under that mutex, so a
notification can never be lost. The live/idle/queue-depth counters are
advisory telemetry and are never used for coordination.

# Worker loop

Each worker alternates between a busy phase (popping and running queued
tasks, releasing the lock while a task executes) and an idle phase (waiting
for a notification with a keep-alive timeout). A worker that times out idle
deregisters itself and exits; a worker woken for shutdown drains the queue,
running mandatory tasks and aborting the rest.

# Shutdown

Shutdown is idempotent. It flips the shutdown flag, wakes every worker,
then waits for the last worker to exit before joining them all. A caller
supplied timeout bounds the wait; if it elapses, Shutdown returns without
joining and the mandatory-execution guarantee is knowingly waived by the
caller.

# Usage

	pool, err := blocking.NewPool(nil)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	handle := blocking.SpawnBlocking(pool, func() int {
		return expensiveComputation()
	})

	result, err := handle.Join(context.Background())

# Failure semantics

Task callbacks are caller code. The worker loop performs no recovery; a
panicking callback is captured at the task layer and surfaces on the task's
JoinHandle as a *types.PanicError, keeping queue and counter bookkeeping
consistent either way.
*/
package blocking
