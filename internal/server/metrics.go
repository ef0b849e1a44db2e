package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/pulsegraph/pkg/observability"
)

// Metrics implements the observability hook interfaces on top of
// prometheus collectors. Each instance carries its own registry so
// servers can be created repeatedly in one process.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal  *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
	requestErrors  *prometheus.CounterVec
	runsTotal      *prometheus.CounterVec
	runSeconds     prometheus.Histogram
	layoutSeconds  prometheus.Histogram
	exportsTotal   *prometheus.CounterVec
	cacheOpsTotal  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsegraph_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "path", "status"},
		),
		requestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "pulsegraph_http_request_seconds",
				Help: "HTTP request duration in seconds",
			},
			[]string{"method", "path"},
		),
		requestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsegraph_http_errors_total",
				Help: "Requests that failed before a response was written",
			},
			[]string{"method", "path"},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsegraph_runs_total",
				Help: "Total number of sequence runs",
			},
			[]string{"sequence", "outcome"},
		),
		runSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "pulsegraph_run_seconds",
				Help: "Sequence run duration in seconds",
			},
		),
		layoutSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "pulsegraph_layout_seconds",
				Help: "Layout computation duration in seconds",
			},
		),
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsegraph_exports_total",
				Help: "Total number of rendered artifacts",
			},
			[]string{"format"},
		),
		cacheOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsegraph_cache_ops_total",
				Help: "Cache operations by key type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestSeconds,
		m.requestErrors,
		m.runsTotal,
		m.runSeconds,
		m.layoutSeconds,
		m.exportsTotal,
		m.cacheOpsTotal,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// =============================================================================
// HTTPHooks
// =============================================================================

func (m *Metrics) OnRequest(ctx context.Context, method, path string) {}

func (m *Metrics) OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.requestSeconds.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) OnError(ctx context.Context, method, path string, err error) {
	m.requestErrors.WithLabelValues(method, path).Inc()
}

// =============================================================================
// PlaybackHooks
// =============================================================================

func (m *Metrics) OnLayoutStart(ctx context.Context, nodeCount int) {}

func (m *Metrics) OnLayoutComplete(ctx context.Context, nodeCount int, duration time.Duration, err error) {
	if err == nil {
		m.layoutSeconds.Observe(duration.Seconds())
	}
}

func (m *Metrics) OnRunStart(ctx context.Context, sequence string, nodeCount int) {}

func (m *Metrics) OnRunComplete(ctx context.Context, sequence string, eventCount int, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.runsTotal.WithLabelValues(sequence, outcome).Inc()
	if err == nil {
		m.runSeconds.Observe(duration.Seconds())
	}
}

func (m *Metrics) OnExportStart(ctx context.Context, format string) {}

func (m *Metrics) OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error) {
	if err == nil {
		m.exportsTotal.WithLabelValues(format).Inc()
	}
}

// =============================================================================
// CacheHooks
// =============================================================================

func (m *Metrics) OnCacheHit(ctx context.Context, keyType string) {
	m.cacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(ctx context.Context, keyType string) {
	m.cacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(ctx context.Context, keyType string, size int) {
	m.cacheOpsTotal.WithLabelValues(keyType, "set").Inc()
}

// Register installs this instance as the process-wide hook implementation.
// Call once from the serve path before handling traffic.
func (m *Metrics) Register() {
	observability.SetHTTPHooks(m)
	observability.SetPlaybackHooks(m)
	observability.SetCacheHooks(m)
}

var (
	_ observability.HTTPHooks     = (*Metrics)(nil)
	_ observability.PlaybackHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)
