package sched

import "runtime/debug"

// Entry is a task's body. tc is the handle through which the task may call
// the suspend primitives (Delay, StreamRead, StreamWrite, channel ops); args
// are the values passed to start, and the return value becomes the task's
// terminal value, retrievable via GetReturn.
type Entry func(tc *TaskContext, args ...any) any

// baton carries control between the scheduler goroutine and a task's
// goroutine. Exactly one of resume/yield is ever in flight at a time: the
// two unbuffered channels form a strict ping-pong, so only one goroutine
// of {scheduler, this task} is ever unblocked.
type baton struct {
	args       []any
	terminated bool
	ret        any
}

// Task is a suspendable continuation. It is backed by its own goroutine,
// created lazily on the first call to start. At most one Task holds
// Running at any instant across the whole process, because the scheduler
// never hands the baton to a second goroutine before the first yields it
// back.
type Task struct {
	entry Entry

	state State
	ret   any

	delayed bool

	resumeCh chan baton
	yieldCh  chan baton

	// startArgs are the arguments a task was spawned with, applied
	// automatically the first time the scheduler starts it from the ready
	// queue. Start's own variadic args parameter exists for callers that
	// start a task directly (timer and subscription dispatch, which supply
	// fresh per-firing args).
	startArgs []any

	// id is a scheduler-assigned identity, used as the key in the weak
	// recurrence registry; it is independent of the timer tie-break
	// sequence.
	id uint64

	// sched is the owning scheduler, set once at spawn time so the task's
	// TaskContext can reach suspend primitives.
	sched *Scheduler
}

// NewTask wraps fn as a fresh NotStarted task. It does not spawn the
// goroutine yet; that happens on the first start call.
func NewTask(fn Entry) *Task {
	return &Task{
		entry:    fn,
		state:    NotStarted,
		resumeCh: make(chan baton),
		yieldCh:  make(chan baton),
	}
}

// State returns the task's current lifecycle state.
func (t *Task) State() State { return t.state }

// IsTerminated reports whether the task has returned or faulted.
func (t *Task) IsTerminated() bool { return t.state == Terminated }

// GetReturn returns the task's terminal value. Valid only once IsTerminated
// is true; returns nil otherwise.
func (t *Task) GetReturn() any { return t.ret }

// Delayed reports whether the scheduler should skip this task if it is
// dequeued from the ready queue.
func (t *Task) Delayed() bool { return t.delayed }

// SetDelayed marks or clears the delayed flag.
func (t *Task) SetDelayed(v bool) { t.delayed = v }

// logger returns the owning scheduler's Logger, or nil if this task was
// never attached to one (fatalInvariant falls back to a default in that
// case).
func (t *Task) logger() Logger {
	if t.sched != nil {
		return t.sched.logger
	}
	return nil
}

// Start gives the task the baton for the first time, spawning its
// goroutine. It blocks until the task either suspends or terminates and
// returns whether it terminated.
func (t *Task) Start(args ...any) (terminated bool) {
	if t.state != NotStarted {
		fatalInvariant(t.logger(), "start called on a task that is not NotStarted")
		return false
	}
	t.state = Running

	tc := &TaskContext{task: t, sched: t.sched}
	go func() {
		ret, fault := t.runEntry(tc, args)
		t.yieldCh <- baton{terminated: true, ret: ret, args: nil}
		_ = fault
	}()

	b := <-t.yieldCh
	return t.applyYield(b)
}

// Resume gives a Suspended task the baton back, delivering value as the
// return of whichever suspend primitive it is parked in. It blocks until
// the task suspends again or terminates.
func (t *Task) Resume(value ...any) (terminated bool) {
	if t.state == Terminated {
		fatalInvariant(t.logger(), "resume called on a Terminated task")
		return false
	}
	if t.state != Suspended {
		fatalInvariant(t.logger(), "resume called on a task that is not Suspended")
		return false
	}
	t.state = Running
	t.resumeCh <- baton{args: value}
	b := <-t.yieldCh
	return t.applyYield(b)
}

func (t *Task) applyYield(b baton) bool {
	if b.terminated {
		t.state = Terminated
		t.ret = b.ret
		return true
	}
	t.state = Suspended
	return false
}

// runEntry executes the task's entry point on its own goroutine, recovering
// any panic into a *Fault so it can be reported as the task's terminal
// value instead of crashing the process.
func (t *Task) runEntry(tc *TaskContext, args []any) (ret any, fault *Fault) {
	defer func() {
		if r := recover(); r != nil {
			fault = &Fault{Value: r, Stack: debug.Stack()}
			ret = fault
		}
	}()
	return t.entry(tc, args...), nil
}

// suspend is called from within the task's own goroutine by a suspend
// primitive (Delay, StreamRead, StreamWrite, channel send/receive). It
// hands the baton back to whichever goroutine called Start/Resume and
// blocks until that caller hands it forward again.
// Calling it on a task that is not Running is an invariant violation.
func (t *Task) suspend() []any {
	if t.state != Running {
		fatalInvariant(t.logger(), "suspend called outside a running task")
		return nil
	}
	t.yieldCh <- baton{terminated: false}
	b := <-t.resumeCh
	return b.args
}
