// Package sched provides a single-threaded cooperative task scheduler: a
// runtime that multiplexes many user-defined tasks onto one logical thread
// of control by suspending and resuming them at explicit yield points.
//
// # Architecture
//
// The core is a [Scheduler] that owns a ready queue, a timer list, two
// readiness-subscription tables (read and write), and the channels it was
// asked to construct. Each [Task] is backed by its own goroutine, but the
// Scheduler only ever hands the baton to one goroutine at a time, so
// exactly one task executes application code at any instant — the "single
// OS thread" contract is preserved even though the implementation spans
// multiple goroutines.
//
// Tasks suspend only at explicit points, reached through the [TaskContext]
// passed to every [Entry]: [TaskContext.Delay], [TaskContext.StreamRead],
// [TaskContext.StreamWrite], and [Channel] send/receive. There is no
// preemption and no priority; [Scheduler.Run] drives one fixed five-step
// cycle (tick, advance ready queue, advance timers, advance subscriptions,
// idle) until nothing remains.
//
// # Platform support
//
// The readiness primitive is backed by epoll on Linux (see
// poller_linux.go, using golang.org/x/sys/unix). Other platforms must
// supply a [Poller] via [WithPoller].
//
// # Usage
//
//	s, err := sched.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	s.Spawn(func(tc *sched.TaskContext, _ ...any) any {
//		tc.Delay(sched.FromStd(100 * time.Millisecond))
//		fmt.Println("done")
//		return nil
//	})
//
//	s.Run()
//
// # Error types
//
// The package reports five failure kinds: a [Fault] recovered from a
// panicking task (isolated, not fatal), [ErrChannelClosed] (a failed send
// on a closed channel), [InvariantError] (programmer error, fatal),
// [IoFault] (the readiness primitive failed, fatal), and [ClockFault] (the
// clock went backwards, fatal). All support [errors.Is] and [errors.As].
package sched
