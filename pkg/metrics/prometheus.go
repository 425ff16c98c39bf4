package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meftunca/numbench/pkg/perf"
)

// PrometheusMetrics records timing results as Prometheus series
type PrometheusMetrics struct {
	// Case metrics
	caseMean       *prometheus.GaugeVec
	caseStdDev     *prometheus.GaugeVec
	caseInnerLoops *prometheus.GaugeVec
	caseAllocs     *prometheus.GaugeVec
	caseSamples    *prometheus.CounterVec
	caseCalls      *prometheus.CounterVec
	caseSample     *prometheus.HistogramVec

	// Run metrics
	lastRun prometheus.Gauge

	registry *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	if namespace == "" {
		namespace = "numbench"
	}

	metrics := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
	}

	metrics.initCaseMetrics(namespace)
	metrics.initRunMetrics(namespace)

	metrics.registerMetrics()

	return metrics
}

func (m *PrometheusMetrics) initCaseMetrics(namespace string) {
	m.caseMean = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "case_mean_seconds",
			Help:      "Mean time of one call of the case function",
		},
		[]string{"case"},
	)

	m.caseStdDev = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "case_stddev_seconds",
			Help:      "Standard deviation of the per-call time across samples",
		},
		[]string{"case"},
	)

	m.caseInnerLoops = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "case_inner_loops",
			Help:      "Calls of the case function per timed iteration",
		},
		[]string{"case"},
	)

	m.caseAllocs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "case_allocs_per_call",
			Help:      "Heap allocations per call of the case function",
		},
		[]string{"case"},
	)

	m.caseSamples = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "case_samples_total",
			Help:      "Total number of measured samples",
		},
		[]string{"case"},
	)

	m.caseCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "case_calls_total",
			Help:      "Total number of measured calls of the case function",
		},
		[]string{"case"},
	)

	m.caseSample = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "case_sample_seconds",
			Help:      "Per-call time of each measured sample",
			Buckets:   prometheus.ExponentialBuckets(1e-9, 2, 24),
		},
		[]string{"case"},
	)
}

func (m *PrometheusMetrics) initRunMetrics(namespace string) {
	m.lastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last recorded result",
		},
	)
}

func (m *PrometheusMetrics) registerMetrics() {
	m.registry.MustRegister(m.caseMean)
	m.registry.MustRegister(m.caseStdDev)
	m.registry.MustRegister(m.caseInnerLoops)
	m.registry.MustRegister(m.caseAllocs)
	m.registry.MustRegister(m.caseSamples)
	m.registry.MustRegister(m.caseCalls)
	m.registry.MustRegister(m.caseSample)
	m.registry.MustRegister(m.lastRun)
}

// RecordResult implements perf.Recorder
func (m *PrometheusMetrics) RecordResult(r perf.Result) {
	m.caseMean.WithLabelValues(r.Name).Set(r.Mean / 1e9)
	m.caseStdDev.WithLabelValues(r.Name).Set(r.StdDev / 1e9)
	m.caseInnerLoops.WithLabelValues(r.Name).Set(float64(r.InnerLoops))
	m.caseAllocs.WithLabelValues(r.Name).Set(r.AllocsPerCall)
	m.caseSamples.WithLabelValues(r.Name).Add(float64(len(r.Samples)))
	m.caseCalls.WithLabelValues(r.Name).Add(float64(r.Calls))
	for _, ns := range r.Samples {
		m.caseSample.WithLabelValues(r.Name).Observe(ns / 1e9)
	}
	m.lastRun.Set(float64(time.Now().Unix()))
}

// GetRegistry returns the Prometheus registry
func (m *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler for metrics endpoint
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Router serves Handler at GET /metrics and a liveness check at GET /healthz.
func (m *PrometheusMetrics) Router() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
	return router
}

// Serve exposes Router on ln until ctx is done, then shuts the server down.
func (m *PrometheusMetrics) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}

// WriteTextfile writes the current series in the text exposition format,
// for pickup by the node exporter's textfile collector.
func (m *PrometheusMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
