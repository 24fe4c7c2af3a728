package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/strata/pkg/observability"
)

// Metrics is a Prometheus registry fed by the observability hooks.
type Metrics struct {
	registry *prometheus.Registry

	LayoutsTotal     *prometheus.CounterVec
	LayoutDuration   prometheus.Histogram
	LayoutCrossings  prometheus.Histogram
	SweepPassesTotal *prometheus.CounterVec
	CacheEventsTotal *prometheus.CounterVec
	CacheBytesTotal  prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a registry with all metrics initialized.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "strata_layouts_total",
			Help: "Total number of layout computations",
		}, []string{"status"}), // ok, error
		LayoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "strata_layout_duration_seconds",
			Help:    "Duration of layout computations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		LayoutCrossings: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "strata_layout_crossings",
			Help:    "Edge crossings of computed layouts",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),
		SweepPassesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "strata_sweep_passes_total",
			Help: "Total number of crossing-minimization sweep passes",
		}, []string{"direction", "improved"}),
		CacheEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "strata_cache_events_total",
			Help: "Cache hits, misses and writes",
		}, []string{"type", "event"}),
		CacheBytesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "strata_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "strata_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "strata_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Install registers m as the process-wide layout, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetLayoutHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnLayoutStart(context.Context, int, int) {}

func (m *Metrics) OnPass(_ context.Context, _ int, direction string, _ int, improved bool) {
	m.SweepPassesTotal.WithLabelValues(direction, strconv.FormatBool(improved)).Inc()
}

func (m *Metrics) OnLayoutComplete(_ context.Context, crossings int, d time.Duration, err error) {
	if err != nil {
		m.LayoutsTotal.WithLabelValues("error").Inc()
		return
	}
	m.LayoutsTotal.WithLabelValues("ok").Inc()
	m.LayoutDuration.Observe(d.Seconds())
	m.LayoutCrossings.Observe(float64(crossings))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEventsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEventsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheEventsTotal.WithLabelValues(keyType, "set").Inc()
	m.CacheBytesTotal.Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.LayoutHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
