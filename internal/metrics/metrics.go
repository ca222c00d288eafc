// Package metrics records per-run Prometheus metrics for the API client.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so that each run exports only its own
// samples.
type Recorder struct {
	reg *prometheus.Registry

	// apiRequestsTotal counts API requests.
	// Labels:
	//   - code: HTTP status code
	//   - method: HTTP method
	apiRequestsTotal *prometheus.CounterVec

	// apiRequestDuration observes API request latency in seconds.
	apiRequestDuration *prometheus.HistogramVec

	// commandRunsTotal counts command invocations by exit code.
	commandRunsTotal *prometheus.CounterVec
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_api_requests_total",
				Help: "Total number of task service API requests",
			},
			[]string{"code", "method"},
		),
		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskboard_api_request_duration_seconds",
				Help:    "Duration of task service API requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
		commandRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_command_runs_total",
				Help: "Total number of command runs by exit code",
			},
			[]string{"command", "exit_code"},
		),
	}
	r.reg.MustRegister(r.apiRequestsTotal, r.apiRequestDuration, r.commandRunsTotal)
	return r
}

// InstrumentRoundTripper wraps next with request counting and timing.
func (r *Recorder) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(r.apiRequestsTotal,
		promhttp.InstrumentRoundTripperDuration(r.apiRequestDuration, next))
}

// RecordCommand records a finished command run.
func (r *Recorder) RecordCommand(command string, exitCode int) {
	r.commandRunsTotal.WithLabelValues(command, strconv.Itoa(exitCode)).Inc()
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes all samples in the text exposition format, suitable
// for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
