package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "releasewatch"

// Metrics holds the poll counters exported on the metrics endpoint
type Metrics struct {
	cycles       *prometheus.CounterVec
	alerts       *prometheus.CounterVec
	errors       *prometheus.CounterVec
	tracked      prometheus.Gauge
	lastCycle    prometheus.Gauge
	cycleSeconds prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Poll cycles by result (completed, aborted).",
		}, []string{"result"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alerts emitted by kind (upgrade, downgrade).",
		}, []string{"kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors by kind (config, fetch, storage, notify, version).",
		}, []string{"kind"}),
		tracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_repositories",
			Help:      "Repositories in the most recent tracking list.",
		}),
		lastCycle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time the most recent poll cycle finished.",
		}),
		cycleSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_cycle_duration_seconds",
			Help:      "Duration of poll cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}

	reg.MustRegister(m.cycles, m.alerts, m.errors, m.tracked, m.lastCycle, m.cycleSeconds)
	return m
}

// Nop returns metrics registered to a private registry, for callers that do not export them
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) CycleCompleted(seconds float64, finishedUnix float64) {
	m.cycles.WithLabelValues("completed").Inc()
	m.cycleSeconds.Observe(seconds)
	m.lastCycle.Set(finishedUnix)
}

func (m *Metrics) CycleAborted() {
	m.cycles.WithLabelValues("aborted").Inc()
}

func (m *Metrics) Tracked(n int) {
	m.tracked.Set(float64(n))
}

func (m *Metrics) Alert(kind string) {
	m.alerts.WithLabelValues(kind).Inc()
}

func (m *Metrics) Error(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}
