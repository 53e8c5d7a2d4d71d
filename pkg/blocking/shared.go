package blocking

// workerHandle identifies one worker goroutine. done is closed when the
// goroutine has fully exited; join blocks until then.
type workerHandle struct {
	id   int
	done chan struct{}
}

func (h *workerHandle) join() {
	<-h.done
}

// shared is the pool state guarded by Pool.mu. Its fields form one atomic
// unit: none of them may be observed or mutated without the lock.
type shared struct {
	// queue holds pending tasks in FIFO order. A task is owned by the queue
	// until exactly one worker pops it.
	queue []task

	// shutdown transitions false to true exactly once
	shutdown bool

	// lastExitingWorker retains at most one handle of a worker that exited
	// on idle timeout. The next similarly-exiting worker (or final
	// shutdown) joins it, so teardown never has to track an unbounded set
	// of already-exited handles.
	lastExitingWorker *workerHandle

	// workers maps worker id to handle for every launched worker that has
	// not deregistered itself
	workers map[int]*workerHandle

	// workerIndex issues monotonically increasing worker ids
	workerIndex int
}

func (s *shared) pushBack(t task) {
	s.queue = append(s.queue, t)
}

func (s *shared) popFront() (task, bool) {
	if len(s.queue) == 0 {
		return task{}, false
	}
	t := s.queue[0]
	s.queue[0] = task{}
	s.queue = s.queue[1:]
	return t, true
}
