// Package metrics exposes the Prometheus collectors recorded by the chart pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChartComputations counts finished chart requests by result.
	ChartComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natal_chart_computations_total",
			Help: "Total number of chart computations by result",
		},
		[]string{"result"},
	)

	// AscendantFallbacks counts charts whose ascendant was replaced by the Sun longitude.
	AscendantFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "natal_chart_ascendant_fallback_total",
			Help: "Total number of charts built with the sun longitude as surrogate ascendant",
		},
	)

	// EphemerisLookupDuration tracks latency of calls into the ephemeris provider.
	EphemerisLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "natal_chart_ephemeris_lookup_seconds",
			Help:    "Duration of ephemeris lookups in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"call"},
	)

	// HTTPErrors counts error responses by status and public error code.
	HTTPErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natal_chart_http_errors_total",
			Help: "Total number of error responses by status and error code",
		},
		[]string{"status", "code"},
	)

	// RuleHits counts rule matches by code.
	RuleHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natal_chart_rule_hits_total",
			Help: "Total number of rule hits by rule code",
		},
		[]string{"code"},
	)
)

// Result labels for ChartComputations.
const (
	ResultOK           = "ok"
	ResultDegraded     = "degraded"
	ResultInvalidInput = "invalid_input"
	ResultFailed       = "failed"
	ResultCanceled     = "canceled"
)

// ObserveLookup records the elapsed time since start under the given call label.
func ObserveLookup(call string, start time.Time) {
	EphemerisLookupDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
}
