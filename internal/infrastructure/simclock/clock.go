// Package simclock is the discrete-event scheduler driving a simulation
// run: a single time-ordered queue of pending callbacks, processed
// cooperatively on one goroutine.
package simclock

import (
	"container/heap"
	"time"

	"github.com/trade-hub/trade-hub/internal/domain/clock"
)

type event struct {
	at        time.Time
	seq       uint64
	fn        func()
	cancelled bool
	index     int
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if !q[i].at.Equal(q[j].at) {
		return q[i].at.Before(q[j].at)
	}
	// FIFO among equal timestamps.
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x any) {
	ev := x.(*event)
	ev.index = len(*q)
	*q = append(*q, ev)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}

// Clock implements clock.Scheduler over a binary heap. For a fixed
// scheduling sequence the firing order is fully deterministic.
type Clock struct {
	now     time.Time
	seq     uint64
	queue   eventQueue
	pending map[clock.Token]*event
}

func New(start time.Time) *Clock {
	return &Clock{now: start, pending: make(map[clock.Token]*event)}
}

func (c *Clock) Now() time.Time { return c.now }

// ScheduleAt enqueues fn for t. Timestamps in the past fire at the
// current instant, preserving scheduling order.
func (c *Clock) ScheduleAt(t time.Time, fn func()) clock.Token {
	if t.Before(c.now) {
		t = c.now
	}
	c.seq++
	ev := &event{at: t, seq: c.seq, fn: fn}
	heap.Push(&c.queue, ev)
	tok := clock.Token(c.seq)
	c.pending[tok] = ev
	return tok
}

// Cancel marks a pending callback dead. Cancelling an unknown, fired or
// already-cancelled token is a no-op.
func (c *Clock) Cancel(tok clock.Token) {
	ev, ok := c.pending[tok]
	if !ok {
		return
	}
	ev.cancelled = true
	delete(c.pending, tok)
}

// Run fires callbacks in timestamp order until the queue is exhausted or
// the next event lies beyond until. The clock ends at until.
func (c *Clock) Run(until time.Time) {
	for c.queue.Len() > 0 {
		next := c.queue[0]
		if next.at.After(until) {
			break
		}
		c.step()
	}
	if until.After(c.now) {
		c.now = until
	}
}

// RunAll fires every pending callback, including ones scheduled while
// draining.
func (c *Clock) RunAll() {
	for c.queue.Len() > 0 {
		c.step()
	}
}

// Pending reports the number of live (not cancelled) callbacks.
func (c *Clock) Pending() int { return len(c.pending) }

func (c *Clock) step() {
	ev := heap.Pop(&c.queue).(*event)
	delete(c.pending, clock.Token(ev.seq))
	if ev.cancelled {
		return
	}
	c.now = ev.at
	ev.fn()
}
