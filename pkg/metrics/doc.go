/*
Package metrics provides Prometheus instrumentation for the engine
facade, plus a small process health checker used by the driver's HTTP
surface.

# Recorder

Recorder implements engine.MetricsRecorder against its own Prometheus
registry, so embedding it never collides with other metrics in the
same process:

	storm_engine_tasks_started_total{kind}
	storm_engine_tasks_finished_total{kind,outcome}
	storm_engine_task_duration_seconds{kind}
	storm_engine_pool_active
	storm_engine_pool_capacity

Wiring a Recorder into an Engine is opt-in:

	rec := metrics.NewRecorder()
	e, err := engine.New(engine.Config{
		StateResource: res,
		Metrics:       rec,
	})
	http.Handle("/metrics", rec.Handler())

Leaving Config.Metrics nil is equivalent; the facade installs a no-op
recorder and the call sites are never aware of the difference.

# Timer

Timer is a small helper for timing arbitrary operations against a
caller-supplied histogram:

	timer := metrics.NewTimer()
	doWork()
	timer.ObserveDuration(someHistogram)

# Health

HealthChecker tracks named component health (registry, pool, ...) and
exposes /health, /ready, and /live handlers in the teacher's
liveness/readiness convention.
*/
package metrics
