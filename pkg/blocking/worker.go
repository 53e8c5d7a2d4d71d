package blocking

import (
	"log/slog"
)

// workerEntry is the body of a worker goroutine.
func (p *Pool) workerEntry(h *workerHandle) {
	if p.cfg.OnWorkerStart != nil {
		p.cfg.OnWorkerStart()
	}

	joinPrev := p.run(h)

	if p.cfg.OnWorkerStop != nil {
		p.cfg.OnWorkerStop()
	}

	// Collect the previous idle-timeout exit before reporting our own.
	if joinPrev != nil {
		joinPrev.join()
	}

	p.drained.release()
	close(h.done)
}

// run executes the worker loop: drain the queue while busy, wait for a
// notification while idle, exit on keep-alive timeout or shutdown. It
// returns the handle of a previously exited worker that this worker took
// over the obligation to join, if any.
func (p *Pool) run(h *workerHandle) *workerHandle {
	name := p.cfg.NameFunc(h.id)
	p.logger.Debug("worker started", slog.String("worker", name))

	var joinPrev *workerHandle

	p.mu.Lock()
main:
	for {
		// BUSY: pop under the lock, run with the lock released.
		for {
			t, ok := p.shared.popFront()
			if !ok {
				break
			}
			p.metrics.decQueueDepth()
			p.mu.Unlock()

			t.run()
			p.metrics.incTasksRun()

			p.mu.Lock()
		}

		// IDLE
		p.metrics.incNumIdleThreads()

		for !p.shared.shutdown {
			p.mu.Unlock()

			timer := p.clock.NewTimer(p.cfg.KeepAlive)
			notified := false
			timedOut := false
			select {
			case <-p.notifyCh:
				notified = true
			case <-timer.C():
				timedOut = true
			case <-p.shutdownCh:
			}
			timer.Stop()

			p.mu.Lock()

			if !notified {
				// A notification may have raced the timer or the shutdown
				// broadcast. It must still be consumed: the spawner already
				// moved one idle worker's accounting onto the token.
				select {
				case <-p.notifyCh:
					notified = true
				default:
				}
			}

			if notified {
				// Legitimate wakeup; back to BUSY.
				continue main
			}

			if timedOut && !p.shared.shutdown {
				// Keep-alive expired: deregister and hand any pending join
				// obligation forward. Final shutdown joins this worker via
				// lastExitingWorker.
				delete(p.shared.workers, h.id)
				joinPrev = p.shared.lastExitingWorker
				p.shared.lastExitingWorker = h

				p.logger.Debug("worker idle timeout", slog.String("worker", name))
				break main
			}

			// Woken for shutdown; the loop condition re-checks the flag.
		}

		// Shutdown: drain the queue. Mandatory tasks still run; the rest
		// are aborted. Same lock discipline as BUSY.
		for {
			t, ok := p.shared.popFront()
			if !ok {
				break
			}
			p.metrics.decQueueDepth()
			p.mu.Unlock()

			if t.mandatory {
				t.run()
				p.metrics.incTasksRun()
			} else {
				t.abort()
				p.metrics.incTasksAborted()
			}

			p.mu.Lock()
		}
		break
	}

	// Worker exit. The idle decrement undoes this worker's own idle
	// increment; going negative means the accounting is broken.
	p.metrics.decNumThreads()
	if p.metrics.decNumIdleThreads() < 0 {
		panic("blockpool: idle worker count underflowed on worker exit")
	}
	p.mu.Unlock()

	p.logger.Debug("worker exited", slog.String("worker", name))
	return joinPrev
}
