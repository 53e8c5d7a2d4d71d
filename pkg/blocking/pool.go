package blocking

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/threadwell/blockpool/pkg/types"
)

// Pool is a bounded, dynamically-scaled worker pool for blocking operations.
type Pool struct {
	cfg    *Config
	clock  types.Clock
	logger *slog.Logger

	// mu guards shared. Every state transition that matters for
	// correctness happens under this one lock.
	mu     sync.Mutex
	shared shared

	// notifyCh carries one token per idle-worker wakeup. Capacity equals
	// the thread cap so a send under the lock can never block.
	notifyCh chan struct{}

	// shutdownCh is closed exactly once when shutdown begins
	shutdownCh chan struct{}

	// drained fires when shutdown has begun and the last worker has exited
	drained *drainedSignal

	metrics spawnerMetrics
}

// NewPool creates a pool from cfg. A nil cfg uses DefaultConfig.
func NewPool(cfg *Config) (*Pool, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	return &Pool{
		cfg:    cfg,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		shared: shared{
			workers: make(map[int]*workerHandle),
		},
		notifyCh:   make(chan struct{}, cfg.ThreadCap),
		shutdownCh: make(chan struct{}),
		drained:    newDrainedSignal(),
	}, nil
}

// SpawnBlocking schedules fn on the pool as non-mandatory work and returns a
// handle resolving to its result. The call never blocks on worker startup
// and never panics: scheduling failures resolve the handle instead. If the
// pool shuts down before fn runs, the handle resolves to ErrTaskAborted.
func SpawnBlocking[R any](p *Pool, fn func() R) *JoinHandle[R] {
	bt, handle := newBlockingTask(fn)

	if err := p.spawnTask(task{runnable: bt}); err != nil {
		var noThreads *types.NoThreadsError
		if errors.As(err, &noThreads) {
			var zero R
			handle.complete(zero, err)
		}
		// ErrShuttingDown: the task was already aborted, which resolved the
		// handle.
	}
	return handle
}

// SpawnMandatoryBlocking schedules fn as mandatory work: once accepted it
// will execute even if the pool shuts down first. If shutdown has already
// begun, fn is still executed, in the caller's goroutine, but no handle is
// returned and ErrShuttingDown is reported.
func SpawnMandatoryBlocking[R any](p *Pool, fn func() R) (*JoinHandle[R], error) {
	bt, handle := newBlockingTask(fn)

	if err := p.spawnTask(task{runnable: bt, mandatory: true}); err != nil {
		return nil, err
	}
	return handle, nil
}

// Shutdown stops the pool. It is idempotent: only the first call performs
// the transition. The call waits up to timeout for every queued task to be
// run or aborted and every worker to exit, then joins the workers; a
// timeout <= 0 waits indefinitely. If the timeout elapses first, Shutdown
// returns without joining and any still-queued mandatory work is abandoned
// by the caller's explicit choice.
//
// Reports whether the pool fully drained.
func (p *Pool) Shutdown(timeout time.Duration) bool {
	p.mu.Lock()
	if p.shared.shutdown {
		p.mu.Unlock()
		return p.drained.fired()
	}

	p.shared.shutdown = true
	p.drained.release()
	close(p.shutdownCh)

	lastExiting := p.shared.lastExitingWorker
	p.shared.lastExitingWorker = nil
	workers := p.shared.workers
	p.shared.workers = make(map[int]*workerHandle)

	// Joining must happen outside the lock: an exiting worker needs it to
	// deregister itself.
	p.mu.Unlock()

	p.logger.Debug("pool shutting down", slog.Int("workers", len(workers)))

	if !p.drained.wait(p.clock, timeout) {
		p.logger.Debug("shutdown timeout elapsed before drain completed")
		return false
	}

	if lastExiting != nil {
		lastExiting.join()
	}

	if p.cfg.DeterministicJoin {
		ids := make([]int, 0, len(workers))
		for id := range workers {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			workers[id].join()
		}
	} else {
		for _, h := range workers {
			h.join()
		}
	}

	return true
}

// Close shuts the pool down, waiting indefinitely for it to drain. It is
// safe to call after Shutdown.
func (p *Pool) Close() {
	p.Shutdown(0)
}

// NumThreads returns the number of live workers.
func (p *Pool) NumThreads() int {
	return int(p.metrics.numThreads.Load())
}

// NumIdleThreads returns the number of workers waiting for work.
func (p *Pool) NumIdleThreads() int {
	return int(p.metrics.numIdleThreads.Load())
}

// QueueDepth returns the number of tasks waiting to be picked up.
func (p *Pool) QueueDepth() int {
	return int(p.metrics.queueDepth.Load())
}

// Metrics returns a snapshot of the pool's telemetry counters. The values
// are advisory and may be mutually inconsistent under concurrent load.
func (p *Pool) Metrics() MetricsSnapshot {
	return p.metrics.snapshot()
}
