package sched

import "container/heap"

// RecurrenceDecision is the typed result a recurrent timer's callback
// returns in place of a bare boolean sentinel.
type RecurrenceDecision uint8

const (
	// Continue re-arms a recurrent timer for another firing.
	Continue RecurrenceDecision = iota
	// Stop cancels further firings of a recurrent timer.
	Stop
)

// Timer is an immutable record of a scheduled callback. Rescheduling a
// recurrent timer produces a copy via withSince rather than mutating the
// original, matching the value-semantics the spec describes.
type Timer struct {
	interval  Duration
	since     Duration
	recurrent bool
	callback  Entry

	// seq breaks deadline ties in FIFO insertion order.
	seq uint64
}

// newTimer constructs a one-shot or recurrent timer anchored at since.
func newTimer(interval, since Duration, recurrent bool, callback Entry, seq uint64) Timer {
	return Timer{interval: interval, since: since, recurrent: recurrent, callback: callback, seq: seq}
}

// deadline returns since + interval.
func (t Timer) deadline() Duration { return t.since.Add(t.interval) }

// isDue reports whether now has reached the timer's deadline.
func (t Timer) isDue(now Duration) bool { return now >= t.deadline() }

// left returns the remaining time until deadline, zero if already due.
func (t Timer) left(now Duration) Duration { return t.deadline().Sub(now) }

// withSince returns a copy of t re-anchored at since. Used to reschedule a
// recurrent timer without drift compensation: the next deadline is since +
// interval, regardless of how late the previous firing ran.
func (t Timer) withSince(since Duration) Timer {
	t.since = since
	return t
}

// timerHeap is the container/heap backing store for TimerList, ordered by
// deadline with insertion sequence breaking ties.
type timerHeap []Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	di, dj := h[i].deadline(), h[j].deadline()
	if di != dj {
		return di < dj
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(Timer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TimerList is a min-heap of Timers keyed by deadline, FIFO on ties.
type TimerList struct {
	h       timerHeap
	nextSeq uint64
}

// NewTimerList returns an empty TimerList.
func NewTimerList() *TimerList {
	return &TimerList{}
}

// Add inserts a timer, always stamping it with the next insertion sequence;
// any seq the Timer already carries is overwritten.
func (l *TimerList) Add(t Timer) {
	l.nextSeq++
	t.seq = l.nextSeq
	heap.Push(&l.h, t)
}

// Top returns the earliest-deadline timer without removing it.
func (l *TimerList) Top() (Timer, bool) {
	if len(l.h) == 0 {
		return Timer{}, false
	}
	return l.h[0], true
}

// Shift removes and returns the earliest-deadline timer.
func (l *TimerList) Shift() (Timer, bool) {
	if len(l.h) == 0 {
		return Timer{}, false
	}
	return heap.Pop(&l.h).(Timer), true
}

// Tick is advisory: the heap is already self-ordering on every Add/Shift, so
// there is nothing to reorder here. It exists to mirror the contract named
// in the spec's component table and as a hook point for future backends
// that aren't naturally self-ordering.
func (l *TimerList) Tick(now Duration) {}

// IsEmpty reports whether any timers remain.
func (l *TimerList) IsEmpty() bool { return len(l.h) == 0 }

// Len returns the number of pending timers.
func (l *TimerList) Len() int { return len(l.h) }
