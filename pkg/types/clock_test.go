package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealClockTimerFires(t *testing.T) {
	clock := NewRealClock()

	timer := clock.NewTimer(5 * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C():
	case <-time.After(time.Second):
		require.Fail(t, "timer did not fire")
	}
}

func TestRealClockNowAndSince(t *testing.T) {
	clock := NewRealClock()

	start := clock.Now()
	time.Sleep(time.Millisecond)
	assert.Greater(t, clock.Since(start), time.Duration(0))
}
