package blocking

import (
	"sync/atomic"
	"time"

	"github.com/threadwell/blockpool/pkg/types"
)

// drainedSignal is a one-shot notification that fires when the last holder
// releases it. The pool holds one reference from construction until shutdown
// begins; every worker holds one for its lifetime. The signal therefore fires
// once shutdown has begun and the last worker has fully exited.
type drainedSignal struct {
	refs atomic.Int64
	done chan struct{}
}

func newDrainedSignal() *drainedSignal {
	s := &drainedSignal{done: make(chan struct{})}
	s.refs.Store(1)
	return s
}

func (s *drainedSignal) retain() {
	s.refs.Add(1)
}

func (s *drainedSignal) release() {
	if s.refs.Add(-1) == 0 {
		close(s.done)
	}
}

func (s *drainedSignal) fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// wait blocks until the signal fires, bounded by timeout. A timeout <= 0
// means wait indefinitely. Reports whether the signal fired.
func (s *drainedSignal) wait(clock types.Clock, timeout time.Duration) bool {
	if timeout <= 0 {
		<-s.done
		return true
	}

	timer := clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.done:
		return true
	case <-timer.C():
		return false
	}
}
