package sched

// State is a Task's lifecycle state. Unlike the teacher's atomic, CAS-driven
// LoopState, a Task's state is mutated only from the single scheduler
// goroutine (or from the task's own goroutine while it holds the baton), so
// a plain field suffices — there is no concurrent writer to race against.
type State uint8

const (
	// NotStarted tasks have never been given the baton.
	NotStarted State = iota
	// Running is held by at most one task at a time: the one currently
	// executing user code with the baton.
	Running
	// Suspended tasks have yielded at a suspend primitive and are waiting
	// to be resumed by a timer, subscription, or channel operation.
	Suspended
	// Terminated tasks have returned or faulted; they carry a return value
	// and will never run again.
	Terminated
)

// String renders the state for diagnostics.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Suspended:
		return "Suspended"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}
