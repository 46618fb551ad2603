package pi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stages of a computation reported by [Metrics].
const (
	StageSplit = "split" // binary splitting of the series
	StageFinal = "final" // division and square root
	StageFloor = "floor" // rounding to decimal digits
)

// Metrics collects scheduling counters and stage timings of a [Calculator].
// A nil *Metrics is valid and discards everything.
type Metrics struct {
	forked prometheus.Counter
	inline prometheus.Counter
	leaves prometheus.Counter
	stages *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// If reg is nil, the collectors are created but not registered.
//
// NewMetrics panics if the collectors cannot be registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		forked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pi_tasks_forked_total",
			Help: "Sub-range evaluations started in a new goroutine.",
		}),
		inline: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pi_tasks_inline_total",
			Help: "Sub-range evaluations run in the calling goroutine.",
		}),
		leaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pi_leaves_total",
			Help: "Series terms evaluated.",
		}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pi_stage_duration_seconds",
			Help:    "Duration of computation stages.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		}, []string{"stage"}),
	}
	if reg != nil {
		reg.MustRegister(m.forked, m.inline, m.leaves, m.stages)
	}
	return m
}

func (m *Metrics) addForked(n int) {
	if m == nil {
		return
	}
	m.forked.Add(float64(n))
}

func (m *Metrics) addInline(n int64) {
	if m == nil {
		return
	}
	m.inline.Add(float64(n))
}

func (m *Metrics) addLeaves(n int64) {
	if m == nil {
		return
	}
	m.leaves.Add(float64(n))
}

func (m *Metrics) observe(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(stage).Observe(d.Seconds())
}
