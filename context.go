package sched

// TaskContext is the handle a running task uses to call the scheduler's
// suspend primitives. It is created fresh each time a task is started and
// passed as the first argument to its Entry.
type TaskContext struct {
	task  *Task
	sched *Scheduler
}

// Task returns the underlying Task handle, for callers that want to spawn
// children or inspect their own identity.
func (tc *TaskContext) Task() *Task { return tc.task }

// Scheduler returns the owning Scheduler.
func (tc *TaskContext) Scheduler() *Scheduler { return tc.sched }

// suspendSelf hands the baton back to the scheduler without delivering a
// resume value, used by primitives (like Channel) that resume the task via
// the ready queue rather than via a direct resume-value handoff.
func (tc *TaskContext) suspendSelf() {
	tc.task.suspend()
}

// Delay installs a one-shot timer that resumes the current task after d has
// elapsed, then suspends. It must be called from inside a running task.
func (tc *TaskContext) Delay(d Duration) {
	s := tc.sched
	self := tc.task
	now := s.time
	s.timers.Add(newTimer(d, now, false, func(_ *TaskContext, args ...any) any {
		self.SetDelayed(false)
		s.enqueueExisting(self)
		return nil
	}, 0))
	self.SetDelayed(true)
	tc.task.suspend()
}

// StreamRead subscribes the current task for readability on fd and
// suspends until it is ready, returning the descriptor as delivered by the
// dispatch.
func (tc *TaskContext) StreamRead(fd int) int {
	return tc.subscribe(fd, Readable)
}

// StreamWrite subscribes the current task for writability on fd and
// suspends until it is ready.
func (tc *TaskContext) StreamWrite(fd int) int {
	return tc.subscribe(fd, Writable)
}

func (tc *TaskContext) subscribe(fd int, dir Direction) int {
	s := tc.sched
	self := tc.task
	sub := &StreamSubscription{FD: fd, Direction: dir, Task: self}
	switch dir {
	case Readable:
		s.readSubs.Add(sub)
	case Writable:
		s.writeSubs.Add(sub)
	}
	args := tc.task.suspend()
	if len(args) > 0 {
		if f, ok := args[0].(int); ok {
			return f
		}
	}
	return fd
}
