// Package telemetry provides logging setup and run-level metrics for the API test runner.
//
// # Prometheus Metrics
//
// All metrics are registered against the default Prometheus registry. The runner is a
// short-lived process, so nothing serves /metrics; instead, when
// telemetry.metrics.textfile is configured, the registry is written once at the end of
// the run in the text exposition format so a node_exporter textfile collector (or a CI
// artifact step) can pick it up:
//
//	CHEQPRINT_TELEMETRY_METRICS_TEXTFILE=/var/lib/node_exporter/cheqprint.prom
//
// # Metric Groups
//
//   - API request counters and latency histograms (labelled by endpoint path without query)
//   - Probe outcome counters (pass, fail, skipped)
package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes used for the outcome label of APIRequestsTotal.
const (
	OutcomeSuccess     = "success"
	OutcomeNetwork     = "network"
	OutcomeProtocol    = "protocol"
	OutcomeApplication = "application"
)

// Probe results used for the result label of ProbeResultsTotal.
const (
	ProbePass    = "pass"
	ProbeFail    = "fail"
	ProbeSkipped = "skipped"
)

// API request metrics, labelled by method and endpoint.
//
// APIRequestsTotal is a CounterVec with labels {method, endpoint, outcome}. The endpoint
// label never carries the query string (print-history?limit=5 is recorded as print-history).
//
// Example PromQL queries:
//   - Failures per endpoint:  sum by (endpoint) (cheqprint_api_requests_total{outcome!="success"})
//
// APIRequestDuration is a HistogramVec with labels {method, endpoint}.
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cheqprint_api_requests_total",
			Help: "Total number of CheqPrint API requests issued, by method, endpoint, and outcome.",
		},
		[]string{"method", "endpoint", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cheqprint_api_request_duration_seconds",
			Help:    "Histogram of CheqPrint API request latencies, by method and endpoint.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)
)

// ProbeResultsTotal counts probe outcomes, by probe name and result.
var ProbeResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cheqprint_probe_results_total",
		Help: "Total number of probe executions, by probe and result (pass, fail, skipped).",
	},
	[]string{"probe", "result"},
)

// EndpointLabel strips the query string and surrounding slashes from an endpoint.
func EndpointLabel(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	return strings.Trim(endpoint, "/")
}

// ObserveRequest records one API call.
func ObserveRequest(method, endpoint, outcome string, elapsed time.Duration) {
	label := EndpointLabel(endpoint)
	APIRequestsTotal.WithLabelValues(method, label, outcome).Inc()
	APIRequestDuration.WithLabelValues(method, label).Observe(elapsed.Seconds())
}

// RecordProbe records the outcome of one probe.
func RecordProbe(probe, result string) {
	ProbeResultsTotal.WithLabelValues(probe, result).Inc()
}

// WriteTextfile writes every metric of the given gatherer to path in the Prometheus text
// format. The file is written atomically (temp file + rename) by the client library.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
