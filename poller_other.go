//go:build !linux

package sched

import "errors"

// newDefaultPoller has no implementation outside Linux in this module;
// callers on other platforms must supply their own Poller via WithPoller.
func newDefaultPoller() (Poller, error) {
	return nil, errors.New("sched: no default poller for this platform, use WithPoller")
}
