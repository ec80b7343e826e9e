// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package sched

// schedOptions holds configuration resolved from Option values at
// construction time.
type schedOptions struct {
	clock   Clock
	poller  Poller
	logger  Logger
	metrics *Metrics
}

// Option configures a Scheduler at construction time.
type Option interface {
	apply(*schedOptions) error
}

type optionFunc func(*schedOptions) error

func (f optionFunc) apply(o *schedOptions) error { return f(o) }

// WithClock overrides the Scheduler's time source. Tests use this to inject
// a fake clock with deterministic, controllable readings.
func WithClock(c Clock) Option {
	return optionFunc(func(o *schedOptions) error {
		o.clock = c
		return nil
	})
}

// WithPoller overrides the Scheduler's readiness primitive. The default is
// an epoll-backed poller on Linux; other platforms must supply one.
func WithPoller(p Poller) Option {
	return optionFunc(func(o *schedOptions) error {
		o.poller = p
		return nil
	})
}

// WithLogger overrides the Scheduler's diagnostic logger. The default is a
// zero-dependency text logger writing the spec-mandated "[%04d]: ..." line
// format to os.Stderr.
func WithLogger(l Logger) Option {
	return optionFunc(func(o *schedOptions) error {
		o.logger = l
		return nil
	})
}

// WithMetrics attaches a Prometheus-backed Metrics collector to the
// Scheduler. Disabled by default.
func WithMetrics(m *Metrics) Option {
	return optionFunc(func(o *schedOptions) error {
		o.metrics = m
		return nil
	})
}

func resolveOptions(opts []Option) (*schedOptions, error) {
	cfg := &schedOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.clock == nil {
		cfg.clock = newMonotonicClock()
	}
	if cfg.logger == nil {
		cfg.logger = NewTextLogger(nil)
	}
	return cfg, nil
}
