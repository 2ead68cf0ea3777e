package eventqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchOrderWithinTask(t *testing.T) {
	q := New()
	taskA := "task-a"

	q.Dispatch(taskA, KindStarted, nil)
	q.Dispatch(taskA, KindMessage, "one")
	q.Dispatch(taskA, KindMessage, "two")
	q.Dispatch(taskA, KindFinished, nil)
	q.Close()

	var kinds []Kind
	for {
		ev, ok := q.Next()
		if !ok {
			break
		}
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []Kind{KindStarted, KindMessage, KindMessage, KindFinished}, kinds)
}

func TestCloseDeliversPendingThenStops(t *testing.T) {
	q := New()
	q.Dispatch("t", KindStarted, nil)
	q.Close()

	ev, ok := q.Next()
	require.True(t, ok)
	assert.Equal(t, KindStarted, ev.Kind)

	_, ok = q.Next()
	assert.False(t, ok, "queue should report closed-and-empty")
}

func TestDispatchAfterCloseIsNoOp(t *testing.T) {
	q := New()
	q.Close()
	q.Dispatch("t", KindStarted, nil)

	_, ok := q.Next()
	assert.False(t, ok)
}

func TestNextBlocksUntilDispatch(t *testing.T) {
	q := New()
	done := make(chan Event, 1)
	go func() {
		ev, ok := q.Next()
		if ok {
			done <- ev
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Dispatch("t", KindMessage, "hi")

	select {
	case ev := <-done:
		assert.Equal(t, "hi", ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock after dispatch")
	}
}

func TestConcurrentProducersPreserveTotalOrderPerTask(t *testing.T) {
	q := New()
	var wg sync.WaitGroup
	tasks := []string{"t1", "t2", "t3"}

	for _, task := range tasks {
		wg.Add(1)
		go func(task string) {
			defer wg.Done()
			q.Dispatch(task, KindStarted, nil)
			for i := 0; i < 5; i++ {
				q.Dispatch(task, KindMessage, i)
			}
			q.Dispatch(task, KindFinished, nil)
		}(task)
	}
	wg.Wait()
	q.Close()

	lastSeen := map[string]int{}
	finished := map[string]bool{}
	for {
		ev, ok := q.Next()
		if !ok {
			break
		}
		switch ev.Kind {
		case KindStarted:
			lastSeen[ev.Task.(string)] = -1
		case KindMessage:
			n := ev.Payload.(int)
			require.False(t, finished[ev.Task.(string)], "message after finished")
			require.Greater(t, n, lastSeen[ev.Task.(string)])
			lastSeen[ev.Task.(string)] = n
		case KindFinished:
			finished[ev.Task.(string)] = true
		}
	}
	for _, task := range tasks {
		assert.True(t, finished[task])
	}
}
