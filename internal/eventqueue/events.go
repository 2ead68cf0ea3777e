package eventqueue

import "sync"

// Kind identifies what an Event represents.
type Kind string

const (
	KindStarted       Kind = "started"
	KindFinished      Kind = "finished"
	KindMessage       Kind = "message"
	KindProgress      Kind = "progress"
	KindPlatformEntry Kind = "platform-entry"
)

// Event is a single dispatch: the task it belongs to, its kind, and an
// optional payload whose shape depends on Kind (see the Kind* constants;
// platform-entry carries an engine.PlatformEntry, progress a float64 or
// nil when indeterminate, message a string). Task
// is compared by equality, not inspected; callers use pointer identity
// (e.g. *engine.TaskHandle) so that events for the same task compare
// equal regardless of payload contents.
type Event struct {
	Task    any
	Kind    Kind
	Payload any
}

// Queue is a single-consumer, many-producer FIFO of Events. Dispatch
// never blocks; Next blocks until an event is available or the queue
// is closed and drained.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Event
	closed bool
}

// New returns an open, empty Queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Dispatch appends an event. Safe to call from any goroutine,
// including concurrently from multiple workers. A dispatch after Close
// is a no-op: once closed, no further events are accepted.
func (q *Queue) Dispatch(task any, kind Kind, payload any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, Event{Task: task, Kind: kind, Payload: payload})
	q.cond.Signal()
}

// Next blocks until an event is available or the queue is closed and
// empty, in which case it returns (Event{}, false).
func (q *Queue) Next() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return Event{}, false
	}
	ev := q.items[0]
	q.items = q.items[1:]
	return ev, true
}

// Close marks the queue closed. Events already dispatched are still
// delivered by Next; no new dispatches are accepted afterward.
// Cancelling a task does not close the queue — only the driver that
// owns it does, typically after observing that task's finished event.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// All returns an iterator-style drain function convenient for `for
// ev := range q.All() {}`-style range-over-func consumption in
// drivers (Go 1.23+).
func (q *Queue) All() func(yield func(Event) bool) {
	return func(yield func(Event) bool) {
		for {
			ev, ok := q.Next()
			if !ok {
				return
			}
			if !yield(ev) {
				return
			}
		}
	}
}
