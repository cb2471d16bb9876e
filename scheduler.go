// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import "container/heap"

// An event is a pending re-resolution of an element, due at a given
// virtual time. seq breaks ties between events scheduled for the same
// time in insertion (FIFO) order, so two elements whose outputs change
// at the same instant resolve in the order they were enqueued rather
// than in an order an unstable heap happens to pick.
type event struct {
	at   int64
	seq  int64
	elem Element
}

// eventQueue is a min-heap of events ordered by (at, seq).
type eventQueue []event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(event)) }

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// scheduler drives the event-driven resolve loop: elements are enqueued
// with a delay, popped in (time, insertion-order) sequence, and resolved
// one at a time until the queue empties (the circuit has stabilized) or
// a configured step limit is exceeded (almost always a combinational
// loop that never settles).
type scheduler struct {
	queue     eventQueue
	now       int64
	seq       int64
	steps     uint64
	stepLimit uint64
}

func newScheduler(stepLimit uint64) *scheduler {
	return &scheduler{stepLimit: stepLimit}
}

// enqueue schedules e for re-resolution delay steps after the current
// virtual time.
func (s *scheduler) enqueue(e Element, delay int) {
	if delay < 0 {
		delay = 0
	}
	heap.Push(&s.queue, event{at: s.now + int64(delay), seq: s.seq, elem: e})
	s.seq++
}

// settle drains the queue, resolving one element per step, advancing
// virtual time to each popped event's timestamp. It returns
// StepLimitExceeded if the queue has not emptied within the configured
// step budget.
//
// Resolve has no error return (it mirrors §4.3's resolve()→delay
// contract), but a handful of conditions — splitter contention, chiefly
// — are only discoverable mid-resolve and are genuinely fatal. Such
// elements panic with the error value; settle recovers it here and
// returns it like any other failure rather than letting it escape
// through an unrelated caller's stack.
func (s *scheduler) settle() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	for s.queue.Len() > 0 {
		if s.stepLimit > 0 && s.steps >= s.stepLimit {
			return NewStepLimitExceeded(s.stepLimit)
		}
		ev := heap.Pop(&s.queue).(event)
		s.now = ev.at
		ev.elem.Resolve()
		s.steps++
	}
	return nil
}

// reset empties the queue and resets virtual time and the step counter,
// without touching the step limit.
func (s *scheduler) reset() {
	s.queue = nil
	s.now = 0
	s.seq = 0
	s.steps = 0
}
