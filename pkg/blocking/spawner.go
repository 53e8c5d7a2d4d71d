package blocking

import (
	"errors"

	"github.com/threadwell/blockpool/pkg/types"
)

// spawnTask enqueues t and ensures some worker will service it: an idle
// worker is notified, or a new worker is launched if the pool is below its
// cap. The call never blocks on worker startup.
//
// Returns types.ErrShuttingDown if shutdown has already begun (the task is
// not queued; mandatory work runs inline in the caller's goroutine, other
// work is aborted), or a *types.NoThreadsError if a worker launch failed
// with no live worker to fall back on.
func (p *Pool) spawnTask(t task) error {
	p.mu.Lock()

	if p.shared.shutdown {
		p.mu.Unlock()
		// Scheduled after shutdown began, so it is never queued. Mandatory
		// work must not be lost and runs in the caller's goroutine.
		if t.mandatory {
			t.run()
			p.metrics.incTasksRun()
		} else {
			t.abort()
			p.metrics.incTasksAborted()
		}
		return types.ErrShuttingDown
	}

	p.shared.pushBack(t)
	p.metrics.incQueueDepth()
	p.metrics.incTasksSpawned()

	if p.metrics.numIdleThreads.Load() == 0 {
		// No worker is able to pick the task up right now.
		if p.metrics.numThreads.Load() >= int64(p.cfg.ThreadCap) {
			// At the cap. The task stays queued until a busy worker frees up.
		} else {
			id := p.shared.workerIndex
			h := &workerHandle{id: id, done: make(chan struct{})}

			p.drained.retain()
			if err := p.cfg.Launch(func() { p.workerEntry(h) }); err != nil {
				p.drained.release()
				if isTemporaryLaunchError(err) && p.metrics.numThreads.Load() > 0 {
					// Transient launch failure. The task stays queued and
					// will be serviced by a currently busy worker.
				} else {
					// Nobody will ever run the queued task; the caller must
					// be told.
					p.mu.Unlock()
					return &types.NoThreadsError{Cause: err}
				}
			} else {
				p.metrics.incNumThreads()
				p.shared.workerIndex++
				p.shared.workers[id] = h
			}
		}
	} else {
		// Hand the task to an idle worker. The token channel is buffered and
		// only ever sent to under the lock, so the wakeup cannot be lost;
		// the pending token count keeps idle accounting exact across timer
		// races.
		p.metrics.decNumIdleThreads()
		p.notifyCh <- struct{}{}
	}

	p.mu.Unlock()
	return nil
}

// isTemporaryLaunchError reports whether a worker launch failure is
// transient, such as the OS temporarily refusing a thread.
func isTemporaryLaunchError(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}
