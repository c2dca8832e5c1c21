// Package observability exports Prometheus metrics for schedule runs, graph
// assembly and service use cases.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	scheduleRunsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siteplan",
		Subsystem: "schedule",
		Name:      "runs_total",
		Help:      "Schedule requests by mode and outcome (applied, failed, rejected, stale).",
	}, []string{"mode", "outcome"})

	scheduleRunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "siteplan",
		Subsystem: "schedule",
		Name:      "run_duration_seconds",
		Help:      "Time from schedule request to applied, failed or discarded result.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"mode"})

	graphWarningsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siteplan",
		Subsystem: "graph",
		Name:      "warnings_total",
		Help:      "Activities and dependencies skipped while assembling a graph, by kind.",
	}, []string{"kind"})

	graphNodesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "siteplan",
		Subsystem: "graph",
		Name:      "last_nodes",
		Help:      "Node count of the most recently assembled graph.",
	})

	useCaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "siteplan",
		Subsystem: "service",
		Name:      "use_case_duration_seconds",
		Help:      "Service use-case latency by name and result (success, rejected, error).",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"use_case", "result"})
)

func init() {
	prometheus.MustRegister(scheduleRunsCounter, scheduleRunDuration, graphWarningsCounter, graphNodesGauge, useCaseDuration)
}
