//go:build linux

package sched

import (
	"golang.org/x/sys/unix"
)

// epollPoller is the production Poller, grounded on the teacher's
// FastPoller epoll wrapper. It is driven exclusively from the scheduler
// goroutine, so unlike the teacher's version it carries no locks or atomic
// version counters: there is never a concurrent registration to race
// against a concurrent EpollWait.
type epollPoller struct {
	epfd     int
	eventBuf [256]unix.EpollEvent
	// registered tracks which descriptors are currently added to the
	// epoll instance and with what event mask, so Select can compute the
	// minimal set of EpollCtl calls needed to match the requested sets.
	registered map[int]uint32
}

// newEpollPoller creates and initializes a Linux epoll-backed Poller.
func newEpollPoller() (*epollPoller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollPoller{epfd: epfd, registered: make(map[int]uint32)}, nil
}

// Select implements Poller. It reconciles the epoll registration set with
// the requested read/write descriptors, waits once, and returns the
// descriptors epoll reported ready, partitioned back into read/write sets.
func (p *epollPoller) Select(readFDs, writeFDs []int, timeout *Duration) ([]int, []int, error) {
	wanted := make(map[int]uint32, len(readFDs)+len(writeFDs))
	for _, fd := range readFDs {
		wanted[fd] |= unix.EPOLLIN
	}
	for _, fd := range writeFDs {
		wanted[fd] |= unix.EPOLLOUT
	}

	if err := p.reconcile(wanted); err != nil {
		return nil, nil, err
	}

	timeoutMs := -1
	if timeout != nil {
		timeoutMs = int(timeout.Milliseconds())
	}

	n, err := unix.EpollWait(p.epfd, p.eventBuf[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var readyRead, readyWrite []int
	for i := 0; i < n; i++ {
		fd := int(p.eventBuf[i].Fd)
		events := p.eventBuf[i].Events
		if events&(unix.EPOLLIN|unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			if _, ok := wanted[fd]; ok && wanted[fd]&unix.EPOLLIN != 0 {
				readyRead = append(readyRead, fd)
			}
		}
		if events&(unix.EPOLLOUT|unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			if _, ok := wanted[fd]; ok && wanted[fd]&unix.EPOLLOUT != 0 {
				readyWrite = append(readyWrite, fd)
			}
		}
	}

	return readyRead, readyWrite, nil
}

// reconcile adds, modifies, or removes epoll registrations so the kernel
// set matches wanted exactly.
func (p *epollPoller) reconcile(wanted map[int]uint32) error {
	for fd, mask := range wanted {
		cur, ok := p.registered[fd]
		ev := &unix.EpollEvent{Events: mask, Fd: int32(fd)}
		switch {
		case !ok:
			if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, ev); err != nil {
				return err
			}
		case cur != mask:
			if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, ev); err != nil {
				return err
			}
		}
		p.registered[fd] = mask
	}
	for fd := range p.registered {
		if _, ok := wanted[fd]; !ok {
			_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
			delete(p.registered, fd)
		}
	}
	return nil
}

// Close releases the epoll file descriptor.
func (p *epollPoller) Close() error {
	return unix.Close(p.epfd)
}

// newDefaultPoller constructs the platform default Poller.
func newDefaultPoller() (Poller, error) {
	return newEpollPoller()
}
