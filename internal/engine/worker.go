package engine

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/nimbusctl/stormengine/internal/eventqueue"
	"github.com/nimbusctl/stormengine/internal/provider"
)

// OperationFunc is a scheduling method's private operation body. It
// receives the Worker running it (which also serves as the
// provider-facing provider.TaskContext) and returns the task's result
// value.
type OperationFunc func(w *Worker) (any, error)

// Worker owns a single in-flight operation end to end: progress
// accounting (§3), cooperative cancellation, and event dispatch. It
// implements provider.TaskContext directly — operations and the
// providers they invoke share the same object, so there is no separate
// context type to keep in sync with the worker's accounting.
type Worker struct {
	queue  *eventqueue.Queue
	out    provider.Sink
	errout provider.Sink
	handle *TaskHandle

	// metrics/kind are set by the engine facade after construction;
	// a freshly built Worker always has a working noop recorder so
	// tests that construct one directly never need to set them.
	metrics MetricsRecorder
	kind    string

	progressMu sync.Mutex
	value      float64
	track      float64

	cancelMu    sync.Mutex
	cancelArmed bool
}

func newWorker(queue *eventqueue.Queue, out, errout provider.Sink) *Worker {
	return &Worker{queue: queue, out: out, errout: errout, metrics: noopMetrics{}}
}

// Submit wraps op in a thunk that dispatches started, runs it, and
// dispatches finished on every exit path, then hands the thunk to
// pool. Returns the task handle immediately; the operation itself runs
// asynchronously.
func (w *Worker) Submit(pool *Pool, op OperationFunc) *TaskHandle {
	handle := newTaskHandle(pool, w)
	w.handle = handle

	pool.submit(handle, func(cancelledBeforeStart bool) {
		w.queue.Dispatch(handle, eventqueue.KindStarted, nil)
		w.metrics.TaskStarted(w.kind)
		w.metrics.PoolOccupancy(pool.Active(), pool.Capacity())

		start := time.Now()
		var result any
		var err error
		if cancelledBeforeStart {
			err = ErrTaskCancelled
		} else {
			result, err = w.run(op)
		}

		w.metrics.TaskFinished(w.kind, err, time.Since(start))
		w.metrics.PoolOccupancy(pool.Active(), pool.Capacity())
		w.queue.Dispatch(handle, eventqueue.KindFinished, nil)
		handle.finish(result, err)
	})
	return handle
}

func (w *Worker) run(op OperationFunc) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: operation panicked: %v", r)
		}
	}()
	return op(w)
}

// Message dispatches a message event.
func (w *Worker) Message(text string) {
	w.queue.Dispatch(w.handle, eventqueue.KindMessage, text)
}

// Dispatch emits an arbitrary event kind for this task. Engine
// scheduling methods use it for kinds a provider never needs to
// produce directly, such as platform-entry.
func (w *Worker) Dispatch(kind eventqueue.Kind, payload any) {
	w.queue.Dispatch(w.handle, kind, payload)
}

// Progress emits aggregated progress per §3: value + track*x. An x of
// NaN emits an indeterminate (nil-payload) progress event.
func (w *Worker) Progress(x float64) {
	w.progressMu.Lock()
	defer w.progressMu.Unlock()
	if math.IsNaN(x) {
		w.queue.Dispatch(w.handle, eventqueue.KindProgress, nil)
		return
	}
	w.queue.Dispatch(w.handle, eventqueue.KindProgress, w.value+w.track*x)
}

// ProgressTrack closes the current segment (adding track to value),
// opens a new segment of relative size t, and emits the (now closed)
// value.
func (w *Worker) ProgressTrack(t float64) {
	w.progressMu.Lock()
	defer w.progressMu.Unlock()
	w.value += w.track
	w.track = t
	w.queue.Dispatch(w.handle, eventqueue.KindProgress, w.value)
}

// Out returns the sink for the operation's standard output.
func (w *Worker) Out() provider.Sink { return w.out }

// Err returns the sink for the operation's standard error.
func (w *Worker) Err() provider.Sink { return w.errout }

// CancelCheck returns ErrTaskCancelled if cancellation has been armed,
// disarming it in the process so that cleanup code which also polls
// does not observe a second raise.
func (w *Worker) CancelCheck() error {
	w.cancelMu.Lock()
	defer w.cancelMu.Unlock()
	if w.cancelArmed {
		w.cancelArmed = false
		return ErrTaskCancelled
	}
	return nil
}

// arm sets the cooperative cancellation flag so the next CancelCheck
// raises. Idempotent: arming an already-armed worker is a no-op.
func (w *Worker) arm() {
	w.cancelMu.Lock()
	defer w.cancelMu.Unlock()
	w.cancelArmed = true
}
