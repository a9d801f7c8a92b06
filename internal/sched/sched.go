// Package sched provides a single-threaded task scheduler driven by a
// virtual clock. Game timers (reveal delay, burst interval, cleanup tick)
// are registered as tasks and run from Advance, so all game state is
// mutated on the caller's goroutine and no locking is needed.
package sched

import (
	"container/heap"
	"time"
)

// Handle identifies a scheduled task and allows cancelling it.
// A nil *Handle is valid and behaves as an already-finished task.
type Handle struct {
	interval  time.Duration // 0 for one-shot tasks
	cancelled bool
	done      bool
}

// Cancel prevents the task from running again. Safe to call repeatedly
// and from inside the task's own callback.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.cancelled = true
}

// Active reports whether the task may still run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled && !h.done
}

type task struct {
	at     time.Duration
	seq    uint64
	handle *Handle
	fn     func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Scheduler runs tasks against a virtual clock that only moves when
// Advance is called.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue taskQueue
}

// New creates a scheduler with the clock at zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time elapsed since construction.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d from now. Negative durations run on the next Advance.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	s.push(s.now+max(d, 0), h, fn)
	return h
}

// Every runs fn every d, first at now+d. Non-positive intervals are
// raised to one nanosecond so Advance always terminates.
func (s *Scheduler) Every(d time.Duration, fn func()) *Handle {
	if d <= 0 {
		d = time.Nanosecond
	}
	h := &Handle{interval: d}
	s.push(s.now+d, h, fn)
	return h
}

func (s *Scheduler) push(at time.Duration, h *Handle, fn func()) {
	s.seq++
	heap.Push(&s.queue, &task{at: at, seq: s.seq, handle: h, fn: fn})
}

// Advance moves the clock forward by d, running every task that falls due
// in deadline order. Tasks scheduled by callbacks run in the same call if
// they are due before the new time. Cancelled tasks are discarded.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + max(d, 0)
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.at > target {
			break
		}
		heap.Pop(&s.queue)
		if next.handle.cancelled {
			continue
		}

		s.now = next.at
		if next.handle.interval == 0 {
			next.handle.done = true
		}
		next.fn()

		if next.handle.interval > 0 && !next.handle.cancelled {
			s.push(next.at+next.handle.interval, next.handle, next.fn)
		}
	}
	s.now = target
}

// Pending returns the number of live (not cancelled) queued tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.handle.cancelled {
			n++
		}
	}
	return n
}
