package engine

import "time"

// TaskHandle is the consumer-facing value every scheduling method
// returns. It carries no observable fields of its own — equality is
// reference equality, and it doubles as the identity events for its
// task carry in eventqueue.Event.Task.
type TaskHandle struct {
	pool   *Pool
	worker *Worker // borrowed: the pool keeps the worker alive until finished is dispatched

	done   chan struct{}
	result any
	err    error
}

func newTaskHandle(pool *Pool, worker *Worker) *TaskHandle {
	return &TaskHandle{pool: pool, worker: worker, done: make(chan struct{})}
}

func (h *TaskHandle) finish(result any, err error) {
	h.result = result
	h.err = err
	close(h.done)
}

// Result blocks until the task succeeds, fails, or is cancelled, and
// returns its value or error. timeout <= 0 waits indefinitely; a
// positive timeout that elapses first fails with ErrTimeout without
// affecting the task itself.
func (h *TaskHandle) Result(timeout time.Duration) (any, error) {
	if timeout <= 0 {
		<-h.done
		return h.result, h.err
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-h.done:
		return h.result, h.err
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Cancel attempts the pool-level cancel (succeeds only if the task has
// not started) and arms cooperative cancellation for when it has
// already begun running. Idempotent: once armed, further calls only
// re-arm an already-armed flag.
func (h *TaskHandle) Cancel() {
	h.pool.cancelQueued(h)
	h.worker.arm()
}
