package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK       = "ok"
	outcomeNoMarker = "no_marker"
	outcomeEmpty    = "empty"
	outcomeError    = "error"
)

var (
	runsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "council_runs_total",
			Help: "Council runs started.",
		},
	)

	runsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "council_runs_in_progress",
			Help: "Council runs currently executing.",
		},
	)

	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "council_steps_total",
			Help: "Agent turns by role and outcome.",
		},
		[]string{"role", "outcome"},
	)

	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "council_step_duration_seconds",
			Help:    "Model call latency per agent turn.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"role"},
	)

	lastConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "council_last_confidence",
			Help: "Confidence reported by the most recent turn of each role.",
		},
		[]string{"role"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runsInProgress)
	prometheus.MustRegister(stepsTotal)
	prometheus.MustRegister(stepDuration)
	prometheus.MustRegister(lastConfidence)
}
