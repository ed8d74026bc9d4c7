package eval

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"time"

	"github.com/npillmayer/ctree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects evaluation statistics. Metrics may be shared between
// evaluators.
type Metrics struct {
	visits      *prometheus.CounterVec // labels: kind
	evaluations *prometheus.CounterVec // labels: status
	faults      prometheus.Counter
	duration    prometheus.Histogram
}

// NewMetrics creates evaluation metrics and registers them with reg.
// A nil reg creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		visits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctree",
			Subsystem: "eval",
			Name:      "node_visits_total",
			Help:      "Total number of node visits during evaluation",
		}, []string{"kind"}),
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctree",
			Subsystem: "eval",
			Name:      "evaluations_total",
			Help:      "Total number of tree evaluations by outcome",
		}, []string{"status"}),
		faults: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ctree",
			Subsystem: "eval",
			Name:      "leaf_faults_total",
			Help:      "Total number of faults raised by leaf functions",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ctree",
			Subsystem: "eval",
			Name:      "duration_seconds",
			Help:      "Duration of tree evaluations",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),
	}
}

func (m *Metrics) visit(k ctree.Kind) {
	if m != nil {
		m.visits.WithLabelValues(k.String()).Inc()
	}
}

func (m *Metrics) fault() {
	if m != nil {
		m.faults.Inc()
	}
}

// done records a finished evaluation; outcome is "error" for evaluations
// ending in a fault.
func (m *Metrics) done(outcome string, start time.Time) {
	if m != nil {
		m.evaluations.WithLabelValues(outcome).Inc()
		m.duration.Observe(time.Since(start).Seconds())
	}
}
