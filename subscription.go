package sched

// Direction identifies which readiness condition a subscription waits for.
type Direction uint8

const (
	// Readable waits for the descriptor to become readable.
	Readable Direction = iota
	// Writable waits for the descriptor to become writable.
	Writable
)

// StreamSubscription binds a descriptor and direction to the task waiting
// on it. It is removed from its SubscriptionList once the task terminates;
// a task that merely suspends again stays subscribed.
type StreamSubscription struct {
	FD        int
	Direction Direction
	Task      *Task
}

// SubscriptionList is a multiset of subscriptions indexed by descriptor,
// dispatched in insertion order per descriptor. Multiple subscriptions may
// reference the same descriptor.
type SubscriptionList struct {
	byFD map[int][]*StreamSubscription
	// fds preserves first-subscription order for deterministic iteration
	// over the descriptor set itself (needed only for test determinism;
	// the poller treats the set as unordered).
	fds []int
}

// NewSubscriptionList returns an empty SubscriptionList.
func NewSubscriptionList() *SubscriptionList {
	return &SubscriptionList{byFD: make(map[int][]*StreamSubscription)}
}

// Add registers a subscription, appending to its descriptor's dispatch
// order.
func (l *SubscriptionList) Add(sub *StreamSubscription) {
	existing, ok := l.byFD[sub.FD]
	if !ok {
		l.fds = append(l.fds, sub.FD)
	}
	l.byFD[sub.FD] = append(existing, sub)
}

// Remove deletes a specific subscription from its descriptor's list. Called
// only once the subscription's task has terminated.
func (l *SubscriptionList) Remove(sub *StreamSubscription) {
	subs, ok := l.byFD[sub.FD]
	if !ok {
		return
	}
	for i, s := range subs {
		if s == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(l.byFD, sub.FD)
		for i, fd := range l.fds {
			if fd == sub.FD {
				l.fds = append(l.fds[:i], l.fds[i+1:]...)
				break
			}
		}
		return
	}
	l.byFD[sub.FD] = subs
}

// At returns the subscriptions bound to fd in insertion order.
func (l *SubscriptionList) At(fd int) []*StreamSubscription {
	return l.byFD[fd]
}

// Descriptors returns the set of currently watched descriptors, in the
// order they were first subscribed.
func (l *SubscriptionList) Descriptors() []int {
	return l.fds
}

// IsEmpty reports whether any descriptor is being watched.
func (l *SubscriptionList) IsEmpty() bool { return len(l.fds) == 0 }
