package sched

import "sync"

var (
	defaultOnce sync.Once
	defaultSync *Scheduler
)

// Default returns the process-wide Scheduler, constructing it with no
// options on first use. Most programs should prefer an explicit *Scheduler
// from New, reserving Default for scripts and tests that want the
// init-on-first-use convenience the spec names as acceptable.
func Default() *Scheduler {
	defaultOnce.Do(func() {
		s, err := New()
		if err != nil {
			panic(err)
		}
		defaultSync = s
	})
	return defaultSync
}

// Spawn wraps fn as a task on the default Scheduler and enqueues it.
func Spawn(fn Entry, args ...any) *Task {
	return Default().Spawn(fn, args...)
}

// Chan constructs a channel of the given capacity bound to the default
// Scheduler.
func Chan[T any](capacity int) *Channel[T] {
	return NewChannel[T](Default(), capacity)
}

// Run drives the default Scheduler to quiescence.
func Run() {
	Default().Run()
}

// RunMain runs fn, then drives the default Scheduler to quiescence before
// returning. Go has no portable process-exit hook, so this is the
// idiomatic stand-in for "drain pending work automatically if run() was
// never called": call it from main instead of calling fn directly.
func RunMain(fn func()) {
	fn()
	Run()
}
