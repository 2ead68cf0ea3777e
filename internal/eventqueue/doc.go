/*
Package eventqueue is the single-consumer, many-producer ordered event
stream workers dispatch into and a driver drains.

It is a narrowed form of a cluster-wide pub/sub broker: instead of
fanning one event out to many
subscribers, it funnels many producers (one worker per task) into one
ordered FIFO a single driver iterates. Events for a given task are
observed in dispatch order; events across tasks are merged in arrival
order. Closing the queue does not discard events already enqueued —
iteration only ends once the queue is both closed and empty.
*/
package eventqueue
