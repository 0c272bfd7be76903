package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fluxorio/webpool/pkg/core/concurrency"
	"github.com/fluxorio/webpool/pkg/tcp"
)

const namespace = "webpool"

var (
	// DefaultRegistry is the default Prometheus registry
	DefaultRegistry = prometheus.NewRegistry()

	// DefaultRegisterer is the default Prometheus registerer
	DefaultRegisterer = prometheus.WrapRegistererWith(prometheus.Labels{"service": "webpool"}, DefaultRegistry)
)

var (
	_ concurrency.MetricsPolicy = (*Metrics)(nil)
	_ tcp.ConnMetrics           = (*Metrics)(nil)
)

// Metrics holds the worker pool and acceptor collectors. It is both a
// concurrency.MetricsPolicy and a tcp.ConnMetrics.
type Metrics struct {
	// Worker pool
	WorkersConfigured prometheus.Gauge
	WorkersBusy       prometheus.Gauge
	TasksQueued       prometheus.Gauge
	TasksSubmitted    prometheus.Counter
	TasksRejected     prometheus.Counter
	TasksCompleted    prometheus.Counter
	TasksFailed       prometheus.Counter
	TasksPanicked     prometheus.Counter

	// Acceptor
	ConnsAccepted       prometheus.Counter
	ConnsHandled        prometheus.Counter
	ConnsErrors         prometheus.Counter
	ConnsSubmitFailures prometheus.Counter
	ConnsInFlight       prometheus.Gauge
}

// NewMetrics creates the collectors on registerer, DefaultRegisterer if nil.
// Registering twice on the same registerer panics.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = DefaultRegisterer
	}
	f := promauto.With(registerer)

	counter := func(subsystem, name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help})
	}
	gauge := func(subsystem, name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: name, Help: help})
	}

	return &Metrics{
		WorkersConfigured: gauge("pool", "workers", "Configured number of workers"),
		WorkersBusy:       gauge("pool", "workers_busy", "Workers currently executing a task"),
		TasksQueued:       gauge("pool", "tasks_queued", "Tasks waiting in the queue"),
		TasksSubmitted:    counter("pool", "tasks_submitted_total", "Tasks accepted into the queue"),
		TasksRejected:     counter("pool", "tasks_rejected_total", "Tasks refused because the pool was shutting down"),
		TasksCompleted:    counter("pool", "tasks_completed_total", "Tasks that finished executing"),
		TasksFailed:       counter("pool", "tasks_failed_total", "Tasks that returned an error"),
		TasksPanicked:     counter("pool", "tasks_panicked_total", "Tasks that panicked"),

		ConnsAccepted:       counter("server", "connections_accepted_total", "Connections accepted"),
		ConnsHandled:        counter("server", "connections_handled_total", "Connections whose job finished"),
		ConnsErrors:         counter("server", "connection_errors_total", "Connections whose handler failed"),
		ConnsSubmitFailures: counter("server", "connection_submit_failures_total", "Connections dropped because the pool refused them"),
		ConnsInFlight:       gauge("server", "connections_in_flight", "Accepted connections not yet finished"),
	}
}

// SetWorkers records the configured pool size.
func (m *Metrics) SetWorkers(n int) { m.WorkersConfigured.Set(float64(n)) }

func (m *Metrics) IncSubmitted()       { m.TasksSubmitted.Inc() }
func (m *Metrics) IncRejected()        { m.TasksRejected.Inc() }
func (m *Metrics) IncCompleted()       { m.TasksCompleted.Inc() }
func (m *Metrics) IncFailed()          { m.TasksFailed.Inc() }
func (m *Metrics) IncPanicked()        { m.TasksPanicked.Inc() }
func (m *Metrics) SetBusy(n int64)     { m.WorkersBusy.Set(float64(n)) }
func (m *Metrics) SetQueued(n int64)   { m.TasksQueued.Set(float64(n)) }
func (m *Metrics) IncAccepted()        { m.ConnsAccepted.Inc() }
func (m *Metrics) IncHandled()         { m.ConnsHandled.Inc() }
func (m *Metrics) IncErrors()          { m.ConnsErrors.Inc() }
func (m *Metrics) IncSubmitFailures()  { m.ConnsSubmitFailures.Inc() }
func (m *Metrics) SetInFlight(n int64) { m.ConnsInFlight.Set(float64(n)) }
