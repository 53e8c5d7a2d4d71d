// Package prometheus exports blocking pool telemetry as Prometheus metrics.
package prometheus

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/threadwell/blockpool/pkg/blocking"
)

// Exporter is a prometheus.Collector that reads the pool's counters on every
// scrape. The values are the pool's advisory telemetry; scrapes never touch
// the pool lock.
type Exporter struct {
	pool *blocking.Pool

	numThreads     *prom.Desc
	numIdleThreads *prom.Desc
	queueDepth     *prom.Desc
	tasksSpawned   *prom.Desc
	tasksRun       *prom.Desc
	tasksAborted   *prom.Desc
}

// NewExporter creates a collector for pool. An empty namespace defaults to
// "blockpool". The caller registers it, typically with
// prometheus.DefaultRegisterer.
func NewExporter(pool *blocking.Pool, namespace string) *Exporter {
	if namespace == "" {
		namespace = "blockpool"
	}

	return &Exporter{
		pool: pool,
		numThreads: prom.NewDesc(
			prom.BuildFQName(namespace, "", "worker_threads"),
			"Number of live worker threads.",
			nil, nil,
		),
		numIdleThreads: prom.NewDesc(
			prom.BuildFQName(namespace, "", "idle_worker_threads"),
			"Number of worker threads waiting for work.",
			nil, nil,
		),
		queueDepth: prom.NewDesc(
			prom.BuildFQName(namespace, "", "queue_depth"),
			"Number of tasks waiting to be picked up.",
			nil, nil,
		),
		tasksSpawned: prom.NewDesc(
			prom.BuildFQName(namespace, "", "tasks_spawned_total"),
			"Total number of tasks accepted by the pool.",
			nil, nil,
		),
		tasksRun: prom.NewDesc(
			prom.BuildFQName(namespace, "", "tasks_run_total"),
			"Total number of tasks executed to completion.",
			nil, nil,
		),
		tasksAborted: prom.NewDesc(
			prom.BuildFQName(namespace, "", "tasks_aborted_total"),
			"Total number of tasks cancelled without executing.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prom.Desc) {
	ch <- e.numThreads
	ch <- e.numIdleThreads
	ch <- e.queueDepth
	ch <- e.tasksSpawned
	ch <- e.tasksRun
	ch <- e.tasksAborted
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prom.Metric) {
	s := e.pool.Metrics()

	ch <- prom.MustNewConstMetric(e.numThreads, prom.GaugeValue, float64(s.NumThreads))
	ch <- prom.MustNewConstMetric(e.numIdleThreads, prom.GaugeValue, float64(s.NumIdleThreads))
	ch <- prom.MustNewConstMetric(e.queueDepth, prom.GaugeValue, float64(s.QueueDepth))
	ch <- prom.MustNewConstMetric(e.tasksSpawned, prom.CounterValue, float64(s.TasksSpawned))
	ch <- prom.MustNewConstMetric(e.tasksRun, prom.CounterValue, float64(s.TasksRun))
	ch <- prom.MustNewConstMetric(e.tasksAborted, prom.CounterValue, float64(s.TasksAborted))
}
