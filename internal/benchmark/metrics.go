package benchmark

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exports suite measurements as Prometheus metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	Duration *prometheus.HistogramVec
	Runs     *prometheus.CounterVec
}

// NewRecorder creates and registers the benchmark metrics.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.Duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unarybench_op_duration_milliseconds",
			Help:    "Wall-clock duration of one unary operation including read-back",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 18),
		},
		[]string{"backend", "op"},
	)

	r.Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unarybench_runs_total",
			Help: "Total number of benchmark runs",
		},
		[]string{"backend", "op", "status"},
	)

	r.registry.MustRegister(r.Duration, r.Runs)
	return r
}

// Observe records one result. Failed results only count towards Runs.
func (r *Recorder) Observe(res Result) {
	status := "ok"
	if res.Failed() {
		status = "error"
	} else {
		r.Duration.WithLabelValues(res.Backend, res.Op).Observe(res.Millis)
	}
	r.Runs.WithLabelValues(res.Backend, res.Op, status).Inc()
}

// Registry returns the registry holding the metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns the Prometheus HTTP handler for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
