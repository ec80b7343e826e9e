package sched

// chanWaiter is a parked sender or receiver: the task suspended on the
// operation, plus the value slot it carries (a sender's outgoing value, or
// the slot a receiver will be handed).
type chanWaiter[T any] struct {
	task      *Task
	value     T
	delivered bool
	// failed is set on a parked sender when Close runs while it is still
	// waiting for a receiver or buffer room: it never gets to deliver value,
	// and the resumed Send reports ErrChannelClosed instead of success.
	failed bool
}

// Channel is a typed rendezvous (capacity 0) or bounded-buffer (capacity
// C>0) synchronization primitive between tasks. It is driven entirely from
// the scheduler goroutine: a Send or Receive call that cannot complete
// immediately parks the calling task's goroutine inside Task.suspend and
// relies on the scheduler to wake it later via the delayed/ready-queue
// machinery, exactly like the other suspend primitives.
type Channel[T any] struct {
	sched    *Scheduler
	capacity int

	buffer    []T
	sendersQ  []*chanWaiter[T]
	receivers []*chanWaiter[T]
	closed    bool
}

// NewChannel constructs a channel of the given capacity (0 = rendezvous).
func NewChannel[T any](s *Scheduler, capacity int) *Channel[T] {
	return &Channel[T]{sched: s, capacity: capacity}
}

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool { return c.closed }

// Send delivers v to the channel from the calling task tc. It returns
// ErrChannelClosed if the channel is already closed. Otherwise, if a
// receiver is already waiting, v is handed to it directly (rendezvous) and
// Send returns immediately; if the buffer has room, v is appended and Send
// returns immediately; otherwise the calling task suspends until a
// receiver drains it.
func (c *Channel[T]) Send(tc *TaskContext, v T) error {
	if c.closed {
		return ErrChannelClosed
	}

	if len(c.receivers) > 0 {
		w := c.receivers[0]
		c.receivers = c.receivers[1:]
		w.value = v
		w.delivered = true
		c.wake(w.task)
		return nil
	}

	if len(c.buffer) < c.capacity {
		c.buffer = append(c.buffer, v)
		return nil
	}

	self := tc.task
	self.SetDelayed(true)
	w := &chanWaiter[T]{task: self, value: v}
	c.sendersQ = append(c.sendersQ, w)
	tc.suspendSelf()

	if w.failed {
		return ErrChannelClosed
	}
	return nil
}

// Receive returns the next value along with true, or the zero value and
// false if the channel is closed and drained.
func (c *Channel[T]) Receive(tc *TaskContext) (T, bool) {
	var zero T

	if len(c.buffer) > 0 {
		v := c.buffer[0]
		c.buffer = c.buffer[1:]
		if len(c.sendersQ) > 0 {
			w := c.sendersQ[0]
			c.sendersQ = c.sendersQ[1:]
			c.buffer = append(c.buffer, w.value)
			c.wake(w.task)
		}
		return v, true
	}

	if len(c.sendersQ) > 0 {
		w := c.sendersQ[0]
		c.sendersQ = c.sendersQ[1:]
		c.wake(w.task)
		return w.value, true
	}

	if c.closed {
		return zero, false
	}

	self := tc.task
	self.SetDelayed(true)
	w := &chanWaiter[T]{task: self}
	c.receivers = append(c.receivers, w)
	tc.suspendSelf()

	if !w.delivered {
		return zero, false
	}
	return w.value, true
}

// Close closes the channel. Further sends fail with ErrChannelClosed.
// Waiting receivers are woken to observe closed+empty. Waiting senders are
// woken too, each with its waiter marked failed so its parked Send returns
// ErrChannelClosed instead of hanging forever or silently succeeding.
// Closing an already-closed channel is an invariant violation, fatal for
// the process, per the package's InvariantError contract.
func (c *Channel[T]) Close() error {
	if c.closed {
		fatalInvariant(c.logger(), "channel already closed")
		return newInvariantError("channel already closed")
	}
	c.closed = true

	for _, w := range c.receivers {
		c.wake(w.task)
	}
	c.receivers = nil

	for _, w := range c.sendersQ {
		w.failed = true
		c.wake(w.task)
	}
	c.sendersQ = nil

	return nil
}

// wake clears the delayed flag and re-enqueues the task so the next ready
// queue pass resumes it.
func (c *Channel[T]) wake(t *Task) {
	t.SetDelayed(false)
	c.sched.enqueueExisting(t)
}

// logger returns the owning scheduler's Logger, or nil if none is attached.
func (c *Channel[T]) logger() Logger {
	if c.sched != nil {
		return c.sched.logger
	}
	return nil
}
