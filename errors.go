package sched

import (
	"errors"
	"fmt"
)

// ErrChannelClosed is returned by Channel.Send when the channel has already
// been closed, or to a parked Send whose channel is closed before the value
// is delivered. Receive never returns it: a receive on a drained, closed
// channel reports the zero value with ok == false, matching Go's own chan
// semantics.
var ErrChannelClosed = errors.New("sched: send on closed channel")

// Fault wraps a recovered panic from inside a task's entry point. It is
// never returned to the caller of run: it is the task's terminal return
// value, retrievable only via Task.GetReturn, matching the UserFault
// isolation the scheduler performs.
type Fault struct {
	// Value is whatever was passed to panic.
	Value any
	// Stack is a short stack trace captured at the point of recovery.
	Stack []byte
}

// Error implements the error interface so a Fault can be inspected with the
// standard errors helpers when the panic value is itself an error.
func (f *Fault) Error() string {
	if err, ok := f.Value.(error); ok {
		return fmt.Sprintf("sched: task fault: %v", err)
	}
	return fmt.Sprintf("sched: task fault: %v", f.Value)
}

// Unwrap returns the panic value if it is itself an error, enabling
// errors.Is/errors.As through a recovered panic's cause chain.
func (f *Fault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// InvariantError reports a programmer error: double-close of a channel,
// resuming a Terminated task, suspending outside a task context. These are
// fatal; the scheduler aborts after logging one.
type InvariantError struct {
	Message string
	Cause   error
}

func (e *InvariantError) Error() string {
	if e.Message == "" {
		return "sched: invariant violation"
	}
	return "sched: invariant violation: " + e.Message
}

func (e *InvariantError) Unwrap() error { return e.Cause }

// IoFault wraps a fatal error returned by the configured Poller.
type IoFault struct {
	Cause error
}

func (e *IoFault) Error() string { return "sched: io fault: " + e.Cause.Error() }
func (e *IoFault) Unwrap() error { return e.Cause }

// ClockFault reports a clock regression: Clock.Now returned a value earlier
// than a previous reading. Fatal.
type ClockFault struct {
	Previous Duration
	Observed Duration
}

func (e *ClockFault) Error() string {
	return fmt.Sprintf("sched: clock fault: observed %s after %s", e.Observed, e.Previous)
}

// newInvariantError is a small constructor used throughout the package so
// call sites read as a sentence rather than a struct literal.
func newInvariantError(message string) *InvariantError {
	return &InvariantError{Message: message}
}

// fatalInvariant reports a programmer-error invariant violation through
// logger's Fatal path, the same path ClockFault and IoFault already use.
// logger may be nil if the offending Task or Channel was never attached to
// a Scheduler; a default TextLogger is used in that case so the violation
// is still reported before the process aborts.
func fatalInvariant(logger Logger, message string) {
	if logger == nil {
		logger = NewTextLogger(nil)
	}
	logger.Fatal("invariant violation", "error", newInvariantError(message))
}
