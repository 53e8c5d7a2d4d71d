package blocking

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadwell/blockpool/pkg/types"
)

func TestBlockingTaskResolvesHandle(t *testing.T) {
	bt, handle := newBlockingTask(func() int { return 42 })

	go bt.Run()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := handle.Join(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestBlockingTaskCapturesPanic(t *testing.T) {
	bt, handle := newBlockingTask(func() string { panic("boom") })

	// Run must not propagate the panic; it resolves the handle instead.
	bt.Run()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := handle.Join(ctx)
	var panicErr *types.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "boom", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
}

func TestBlockingTaskShutdownAborts(t *testing.T) {
	var executed atomic.Int32
	bt, handle := newBlockingTask(func() int {
		executed.Add(1)
		return 1
	})

	bt.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := handle.Join(ctx)
	assert.ErrorIs(t, err, types.ErrTaskAborted)
	assert.Equal(t, int32(0), executed.Load())
}

func TestJoinHandleContextCancellation(t *testing.T) {
	_, handle := newBlockingTask(func() int { return 1 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handle.Join(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJoinHandleCompletesOnce(t *testing.T) {
	handle := &JoinHandle[int]{done: make(chan struct{})}

	handle.complete(1, nil)
	handle.complete(2, types.ErrTaskAborted)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := handle.Join(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result)
}

func TestTaskIDsAreUnique(t *testing.T) {
	a, _ := newBlockingTask(func() int { return 0 })
	b, _ := newBlockingTask(func() int { return 0 })

	assert.NotEqual(t, a.id, b.id)
}
