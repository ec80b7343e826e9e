package sched

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an optional Prometheus instrumentation bundle for a Scheduler.
// Unlike the FluxForge control plane's package-level promauto collectors,
// these are built per-instance and registered against a caller-supplied
// registry, since a process may legitimately run more than one Scheduler
// and package-level collectors would collide on the second registration.
type Metrics struct {
	ReadyDepth    prometheus.Gauge
	PendingTimers prometheus.Gauge
	WatchedDescs  prometheus.Gauge
	CycleLatency  prometheus.Histogram
	TimerFires    prometheus.Counter
	TaskFaults    prometheus.Counter
}

// NewMetrics constructs a Metrics bundle and registers its collectors with
// reg. Pass prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to expose via the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ReadyDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sched_ready_queue_depth",
			Help: "Current number of tasks in the ready queue.",
		}),
		PendingTimers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sched_pending_timers",
			Help: "Current number of timers pending in the timer list.",
		}),
		WatchedDescs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sched_watched_descriptors",
			Help: "Current number of watched file descriptors, counted once per direction.",
		}),
		CycleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sched_cycle_duration_seconds",
			Help:    "Duration of one scheduler cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		TimerFires: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sched_timer_fires_total",
			Help: "Total number of timer callbacks fired.",
		}),
		TaskFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sched_task_faults_total",
			Help: "Total number of tasks that terminated via a recovered panic.",
		}),
	}

	collectors := []prometheus.Collector{
		m.ReadyDepth, m.PendingTimers, m.WatchedDescs,
		m.CycleLatency, m.TimerFires, m.TaskFaults,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observeCycle and the helpers below are nil-safe so call sites in
// scheduler.go don't need a nil check at every call: a Scheduler with no Metrics attached simply
// skips instrumentation.
func (m *Metrics) observeCycle(seconds float64) {
	if m == nil {
		return
	}
	m.CycleLatency.Observe(seconds)
}

func (m *Metrics) setDepths(ready, timers, watched int) {
	if m == nil {
		return
	}
	m.ReadyDepth.Set(float64(ready))
	m.PendingTimers.Set(float64(timers))
	m.WatchedDescs.Set(float64(watched))
}

func (m *Metrics) incTimerFire() {
	if m == nil {
		return
	}
	m.TimerFires.Inc()
}

func (m *Metrics) incTaskFault() {
	if m == nil {
		return
	}
	m.TaskFaults.Inc()
}
