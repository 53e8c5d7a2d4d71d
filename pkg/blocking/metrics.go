package blocking

import (
	"sync/atomic"
)

// spawnerMetrics are advisory telemetry counters. They are observational
// only; the pool mutex remains the sole source of truth for coordination.
type spawnerMetrics struct {
	numThreads     atomic.Int64
	numIdleThreads atomic.Int64
	queueDepth     atomic.Int64
	tasksSpawned   atomic.Int64
	tasksRun       atomic.Int64
	tasksAborted   atomic.Int64
}

func (m *spawnerMetrics) incNumThreads() {
	m.numThreads.Add(1)
}

func (m *spawnerMetrics) decNumThreads() {
	m.numThreads.Add(-1)
}

func (m *spawnerMetrics) incNumIdleThreads() {
	m.numIdleThreads.Add(1)
}

// decNumIdleThreads returns the post-decrement value so callers can assert
// it never underflows.
func (m *spawnerMetrics) decNumIdleThreads() int64 {
	return m.numIdleThreads.Add(-1)
}

func (m *spawnerMetrics) incQueueDepth() {
	m.queueDepth.Add(1)
}

func (m *spawnerMetrics) decQueueDepth() {
	m.queueDepth.Add(-1)
}

func (m *spawnerMetrics) incTasksSpawned() {
	m.tasksSpawned.Add(1)
}

func (m *spawnerMetrics) incTasksRun() {
	m.tasksRun.Add(1)
}

func (m *spawnerMetrics) incTasksAborted() {
	m.tasksAborted.Add(1)
}

// MetricsSnapshot is a point-in-time view of the pool's telemetry counters.
type MetricsSnapshot struct {
	// NumThreads is the number of live workers
	NumThreads int

	// NumIdleThreads is the number of workers waiting for work
	NumIdleThreads int

	// QueueDepth is the number of tasks waiting to be picked up
	QueueDepth int

	// TasksSpawned counts tasks accepted by the pool
	TasksSpawned int64

	// TasksRun counts tasks executed to completion
	TasksRun int64

	// TasksAborted counts tasks cancelled without executing
	TasksAborted int64
}

func (m *spawnerMetrics) snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		NumThreads:     int(m.numThreads.Load()),
		NumIdleThreads: int(m.numIdleThreads.Load()),
		QueueDepth:     int(m.queueDepth.Load()),
		TasksSpawned:   m.tasksSpawned.Load(),
		TasksRun:       m.tasksRun.Load(),
		TasksAborted:   m.tasksAborted.Load(),
	}
}
