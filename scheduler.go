package sched

import "time"

// Scheduler owns the ready queue, timer list, subscription tables, and
// channels of one cooperative run loop. Every mutation happens from the
// single scheduler goroutine (or, transiently, from a task goroutine that
// currently holds the baton), so none of its state needs locking.
type Scheduler struct {
	ready     readyQueue
	timers    *TimerList
	readSubs  *SubscriptionList
	writeSubs *SubscriptionList
	recurring *recurrenceRegistry

	clock   Clock
	poller  Poller
	logger  Logger
	metrics *Metrics

	time  Duration
	start Duration

	running bool
	nextID  uint64
}

// New constructs a Scheduler. The default Clock anchors to the current
// instant; the default Poller is the platform epoll backend on Linux.
func New(opts ...Option) (*Scheduler, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		timers:    NewTimerList(),
		readSubs:  NewSubscriptionList(),
		writeSubs: NewSubscriptionList(),
		recurring: newRecurrenceRegistry(),
		clock:     cfg.clock,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}

	if cfg.poller != nil {
		s.poller = cfg.poller
	}

	s.start = s.clock.Now()
	s.time = s.start
	return s, nil
}

// Elapsed returns the time since the scheduler was constructed, in the
// format Dprintfn expects.
func (s *Scheduler) Elapsed() Duration { return s.time.Sub(s.start) }

// Spawn wraps fn as a fresh NotStarted task, enqueues it, and returns the
// handle. args are delivered to fn when the ready queue starts it.
func (s *Scheduler) Spawn(fn Entry, args ...any) *Task {
	t := NewTask(fn)
	t.sched = s
	t.startArgs = args
	s.nextID++
	t.id = s.nextID
	s.ready.Push(t)
	return t
}

// enqueueExisting re-enqueues an already-constructed task, used by
// suspend-primitive wakeups (timers, subscriptions, channels).
func (s *Scheduler) enqueueExisting(t *Task) {
	s.ready.Push(t)
}

// lazyPoller returns the configured Poller, constructing the platform
// default on first use if none was supplied via options.
func (s *Scheduler) lazyPoller() (Poller, error) {
	if s.poller != nil {
		return s.poller, nil
	}
	p, err := newDefaultPoller()
	if err != nil {
		return nil, err
	}
	s.poller = p
	return p, nil
}

// Run drives the loop to quiescence: ready queue, timer list, and both
// subscription lists all empty. It is idempotent — a call made while
// another call is already driving the loop is a no-op — and re-entrant in
// the sense that calling it again after it previously quiesced restarts it
// if new work has since been posted.
func (s *Scheduler) Run() {
	if s.running {
		return
	}
	s.running = true
	defer func() { s.running = false }()

	for {
		cont := s.cycle()
		if !cont {
			return
		}
	}
}

// cycle performs one pass of the fixed five-step sequence and reports
// whether the loop should continue.
func (s *Scheduler) cycle() bool {
	cycleStart := time.Now()
	defer func() {
		s.metrics.observeCycle(time.Since(cycleStart).Seconds())
		s.metrics.setDepths(s.ready.Len(), s.timers.Len(), len(s.readSubs.Descriptors())+len(s.writeSubs.Descriptors()))
	}()

	yield := false

	// 1. Tick.
	now, err := s.tick()
	if err != nil {
		s.logger.Fatal("clock fault", "error", err)
		return false
	}
	s.time = now
	s.timers.Tick(now)

	// 2. Advance ready queue (snapshot semantics: bounded to N items).
	n := s.ready.Len()
	for i := 0; i < n; i++ {
		t, ok := s.ready.Pop()
		if !ok {
			break
		}
		if t.Delayed() {
			s.ready.Push(t)
			continue
		}
		var terminated bool
		if t.State() == NotStarted {
			terminated = t.Start(t.startArgs...)
		} else if t.State() == Suspended {
			terminated = t.Resume()
		}
		if terminated {
			s.reportTermination(t)
		}
		yield = true
	}

	s.recurring.Scavenge(64, func(timer Timer) {
		s.timers.Add(timer.withSince(s.time))
	})

	// 3. Advance timers.
	var timeout Duration
	if s.timers.IsEmpty() {
		timeout = 0
	} else {
		top, _ := s.timers.Top()
		if !top.isDue(s.time) {
			timeout = top.left(s.time)
		} else {
			due, _ := s.timers.Shift()
			s.fireTimer(due)
			yield = true
			if !s.timers.IsEmpty() {
				top, _ = s.timers.Top()
				timeout = top.left(s.time)
			}
		}
	}

	// 4. Advance stream subscriptions.
	watched := !s.readSubs.IsEmpty() || !s.writeSubs.IsEmpty()
	if watched {
		progressed, err := s.pollOnce(timeout)
		if err != nil {
			s.logger.Fatal("io fault", "error", err)
			return false
		}
		if progressed {
			yield = true
		}
	}

	// 5. Idle.
	if timeout > 0 && !yield {
		time.Sleep(timeout.Std())
		return true
	}
	if s.ready.IsEmpty() && s.timers.IsEmpty() && !watched {
		return false
	}
	return true
}

// tick reads the clock, rejecting a regression as a ClockFault.
func (s *Scheduler) tick() (Duration, error) {
	now := s.clock.Now()
	if now < s.time {
		return s.time, &ClockFault{Previous: s.time, Observed: now}
	}
	return now, nil
}

// fireTimer executes a due timer's callback as a fresh task, re-arming it
// if it is recurrent and the callback did not return Stop.
func (s *Scheduler) fireTimer(due Timer) {
	s.metrics.incTimerFire()
	cb := due.callback
	t := NewTask(cb)
	t.sched = s
	s.nextID++
	t.id = s.nextID

	terminated := t.Start(s.start, s.time)
	if terminated {
		s.reportTermination(t)
	}

	if !due.recurrent {
		return
	}

	if !terminated {
		// The callback itself suspended. Defer the re-arm decision until
		// it eventually terminates; see recurrenceRegistry.
		s.recurring.track(t, due)
		return
	}

	if decision, ok := t.GetReturn().(RecurrenceDecision); !ok || decision == Continue {
		s.timers.Add(due.withSince(s.time))
	}
}

// pollOnce calls the poller once with the union of watched descriptors and
// dispatches readiness to the bound subscriptions in insertion order.
func (s *Scheduler) pollOnce(timeout Duration) (bool, error) {
	poller, err := s.lazyPoller()
	if err != nil {
		return false, err
	}

	readFDs := s.readSubs.Descriptors()
	writeFDs := s.writeSubs.Descriptors()

	var to *Duration
	if timeout > 0 {
		d := timeout
		to = &d
	}

	readyRead, readyWrite, err := poller.Select(readFDs, writeFDs, to)
	if err != nil {
		return false, &IoFault{Cause: err}
	}

	progressed := false
	for _, fd := range readyRead {
		if s.dispatch(s.readSubs, fd) {
			progressed = true
		}
	}
	for _, fd := range readyWrite {
		if s.dispatch(s.writeSubs, fd) {
			progressed = true
		}
	}
	return progressed, nil
}

// dispatch resumes every non-delayed subscription bound to fd, in
// insertion order, removing any whose task terminates.
func (s *Scheduler) dispatch(list *SubscriptionList, fd int) bool {
	subs := append([]*StreamSubscription(nil), list.At(fd)...)
	progressed := false
	for _, sub := range subs {
		if sub.Task.Delayed() {
			continue
		}
		progressed = true
		var terminated bool
		if sub.Task.State() == NotStarted {
			terminated = sub.Task.Start(fd, s.start, s.time)
		} else {
			terminated = sub.Task.Resume(fd)
		}
		if terminated {
			list.Remove(sub)
			s.reportTermination(sub.Task)
		}
	}
	return progressed
}

// reportTermination records a completed task's outcome: a *Fault return
// value means the task panicked and was isolated rather than crashing the
// process, which is worth a warning and a counter increment.
func (s *Scheduler) reportTermination(t *Task) {
	if f, ok := t.GetReturn().(*Fault); ok {
		s.metrics.incTaskFault()
		s.logger.Warn("task fault", "error", f.Error())
	}
}
