package engine

import "time"

// MetricsRecorder receives lifecycle notifications the facade emits
// around every scheduled task (§2.2 domain stack). Instrumentation is
// opt-in: Config.Metrics left nil installs noopMetrics, so the
// scheduling path never has to nil-check a recorder.
type MetricsRecorder interface {
	// TaskStarted is called once a task leaves the queue, before its
	// operation runs; a task cancelled before start still gets one.
	TaskStarted(kind string)
	// TaskFinished is called on every terminal edge, including
	// cancellation before start.
	TaskFinished(kind string, err error, d time.Duration)
	// PoolOccupancy reports the worker pool's current active count
	// against its fixed capacity.
	PoolOccupancy(active, capacity int)
}

type noopMetrics struct{}

func (noopMetrics) TaskStarted(string)                        {}
func (noopMetrics) TaskFinished(string, error, time.Duration) {}
func (noopMetrics) PoolOccupancy(int, int)                    {}
