package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	dishesPrepared *prometheus.CounterVec
	dishesFailed   prometheus.Counter
	replenishments *prometheus.CounterVec
	batchDuration  prometheus.Histogram
	queueDepth     prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Counter, *prometheus.CounterVec, prometheus.Histogram, prometheus.Gauge) {
	prepared := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_dishes_prepared_total",
			Help: "Number of dishes prepared, by station",
		},
		[]string{"station"},
	)
	failed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kitchen_dishes_requeued_total",
			Help: "Number of dishes no station could prepare during a batch",
		},
	)
	repl := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_backup_replenishments_total",
			Help: "Backup stock withdrawals, by ingredient and result",
		},
		[]string{"ingredient", "result"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kitchen_batch_duration_seconds",
			Help:    "Duration of full queue dispatch batches",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
	depth := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kitchen_queue_depth",
			Help: "Orders waiting in the dish queue after the last dispatch",
		},
	)
	return prepared, failed, repl, dur, depth
}

func init() {
	dishesPrepared, dishesFailed, replenishments, batchDuration, queueDepth = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(dishesPrepared, dishesFailed, replenishments, batchDuration, queueDepth)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	dishesPrepared, dishesFailed, replenishments, batchDuration, queueDepth = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
