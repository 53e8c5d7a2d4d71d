package blocking

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadwell/blockpool/pkg/types"
)

// tempLaunchError mimics the OS temporarily refusing a new thread.
type tempLaunchError struct{}

func (tempLaunchError) Error() string   { return "resource temporarily unavailable" }
func (tempLaunchError) Temporary() bool { return true }

func TestLaunchTransientFailureKeepsTaskQueued(t *testing.T) {
	var launches atomic.Int32
	pool, err := NewPool(&Config{
		ThreadCap: 4,
		KeepAlive: time.Minute,
		Launch: func(fn func()) error {
			if launches.Add(1) == 1 {
				go fn()
				return nil
			}
			return tempLaunchError{}
		},
	})
	require.NoError(t, err)
	defer pool.Close()

	gate := make(chan struct{})
	started := make(chan struct{})
	busy := SpawnBlocking(pool, func() struct{} {
		close(started)
		<-gate
		return struct{}{}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case <-started:
	case <-ctx.Done():
		require.Fail(t, "first task did not start")
	}

	// The second launch fails transiently; the task must stay queued and be
	// serviced by the existing worker once it frees up.
	queued := SpawnBlocking(pool, func() int { return 7 })
	assert.Equal(t, 1, pool.NumThreads())
	assert.Equal(t, 1, pool.QueueDepth())

	close(gate)

	_, err = busy.Join(ctx)
	require.NoError(t, err)

	result, err := queued.Join(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, result)

	assert.GreaterOrEqual(t, launches.Load(), int32(2))
	assert.Equal(t, 1, pool.NumThreads())
}

func TestLaunchFatalFailureWithZeroWorkers(t *testing.T) {
	permanent := errors.New("operation not permitted")
	pool, err := NewPool(&Config{
		ThreadCap: 4,
		KeepAlive: time.Minute,
		Launch: func(fn func()) error {
			return permanent
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The non-mandatory path never panics; the handle resolves to the error.
	handle := SpawnBlocking(pool, func() int { return 1 })
	_, err = handle.Join(ctx)
	var noThreads *types.NoThreadsError
	require.ErrorAs(t, err, &noThreads)
	assert.ErrorIs(t, err, permanent)

	// The mandatory path reports it directly.
	mandatory, err := SpawnMandatoryBlocking(pool, func() int { return 2 })
	assert.Nil(t, mandatory)
	require.ErrorAs(t, err, &noThreads)

	assert.Equal(t, 0, pool.NumThreads())
	pool.Close()
}

func TestTransientFailureWithZeroWorkersIsFatal(t *testing.T) {
	pool, err := NewPool(&Config{
		ThreadCap: 4,
		KeepAlive: time.Minute,
		Launch: func(fn func()) error {
			return tempLaunchError{}
		},
	})
	require.NoError(t, err)
	defer pool.Close()

	// Transient or not, with zero live workers nobody can ever pick the
	// task up, so the caller must be told.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = SpawnBlocking(pool, func() int { return 1 }).Join(ctx)
	var noThreads *types.NoThreadsError
	require.ErrorAs(t, err, &noThreads)
}

func TestIsTemporaryLaunchError(t *testing.T) {
	assert.True(t, isTemporaryLaunchError(tempLaunchError{}))
	assert.True(t, isTemporaryLaunchError(&wrappedLaunchErr{err: tempLaunchError{}}))
	assert.False(t, isTemporaryLaunchError(errors.New("permanent")))
	assert.False(t, isTemporaryLaunchError(nil))
}

type wrappedLaunchErr struct {
	err error
}

func (w *wrappedLaunchErr) Error() string { return "launch failed: " + w.err.Error() }
func (w *wrappedLaunchErr) Unwrap() error { return w.err }
