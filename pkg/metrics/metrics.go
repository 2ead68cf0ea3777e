package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nimbusctl/stormengine/internal/engine"
)

// Recorder implements engine.MetricsRecorder against a dedicated
// prometheus registry. Construct one with NewRecorder and pass it as
// engine.Config.Metrics; wiring it up is the caller's choice, never
// the engine's default.
type Recorder struct {
	registry *prometheus.Registry

	tasksStarted  *prometheus.CounterVec
	tasksFinished *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
	poolActive    prometheus.Gauge
	poolCapacity  prometheus.Gauge
}

// NewRecorder builds a Recorder with its own registry, so embedding it
// in a process never collides with metrics registered elsewhere.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tasksStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storm_engine_tasks_started_total",
				Help: "Total number of engine tasks started, by kind",
			},
			[]string{"kind"},
		),
		tasksFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storm_engine_tasks_finished_total",
				Help: "Total number of engine tasks finished, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storm_engine_task_duration_seconds",
				Help:    "Engine task duration in seconds, by kind",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		poolActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "storm_engine_pool_active",
				Help: "Number of worker pool slots currently running a task",
			},
		),
		poolCapacity: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "storm_engine_pool_capacity",
				Help: "Fixed worker pool size",
			},
		),
	}
	r.registry.MustRegister(r.tasksStarted, r.tasksFinished, r.taskDuration, r.poolActive, r.poolCapacity)
	return r
}

var _ engine.MetricsRecorder = (*Recorder)(nil)

// TaskStarted implements engine.MetricsRecorder.
func (r *Recorder) TaskStarted(kind string) {
	r.tasksStarted.WithLabelValues(kind).Inc()
}

// TaskFinished implements engine.MetricsRecorder. outcome is "ok" or
// "error"; cancellation and operation failure both count as "error".
func (r *Recorder) TaskFinished(kind string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.tasksFinished.WithLabelValues(kind, outcome).Inc()
	r.taskDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// PoolOccupancy implements engine.MetricsRecorder.
func (r *Recorder) PoolOccupancy(active, capacity int) {
	r.poolActive.Set(float64(active))
	r.poolCapacity.Set(float64(capacity))
}

// Handler returns the Prometheus scrape handler for this Recorder's
// registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
