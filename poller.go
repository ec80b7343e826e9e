// Poller provides the I/O readiness primitive the scheduler relies on: a
// blocking, multi-descriptor wait with a timeout. On Linux it is backed by
// epoll (see poller_linux.go); other platforms can supply an alternate
// implementation and plug it in via WithPoller.
package sched

// Poller is the readiness primitive the scheduler polls on every cycle that
// has watched descriptors. Select blocks until at least one of readFDs or
// writeFDs becomes ready, the timeout elapses, or (timeout == nil) forever,
// then returns the subsets that are actually ready. It must never report a
// descriptor as ready spuriously.
type Poller interface {
	// Select waits for readiness on the given read and write descriptor
	// sets. timeout == nil blocks indefinitely. Returns the ready subsets.
	Select(readFDs, writeFDs []int, timeout *Duration) (readyRead, readyWrite []int, err error)

	// Close releases any OS resources held by the poller.
	Close() error
}
