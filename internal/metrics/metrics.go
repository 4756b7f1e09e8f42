// Package metrics records drawctl activity as Prometheus metrics by
// implementing the observability hook interfaces.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/observability"
)

const namespace = "drawctl"

// Metrics holds the collectors. It implements every hook interface in
// package observability.
type Metrics struct {
	registry *prometheus.Registry

	batches        *prometheus.CounterVec
	batchDuration  *prometheus.HistogramVec
	batchItems     *prometheus.CounterVec
	layouts        *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	layoutNodes    prometheus.Histogram
	cacheEvents    *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry, along
// with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Edit batches executed, by operation and result code",
		}, []string{"op", "code"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time from load to save of an edit batch",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Items submitted in edit batches",
		}, []string{"op"}),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Layout passes, by algorithm and outcome",
		}, []string{"algorithm", "outcome"}),
		layoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout pass duration",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"algorithm"}),
		layoutNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_nodes",
			Help:      "Top-level nodes per layout pass",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Layout cache lookups and writes",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the layout cache",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.batches, m.batchDuration, m.batchItems,
		m.layouts, m.layoutDuration, m.layoutNodes,
		m.cacheEvents, m.cacheBytes,
		m.requests, m.requestLatency,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Install registers m as the process-wide hook implementation.
func (m *Metrics) Install() {
	observability.SetBatchHooks(m)
	observability.SetLayoutHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnBatchStart(_ context.Context, op string, items int) {
	m.batchItems.WithLabelValues(op).Add(float64(items))
}

func (m *Metrics) OnBatchComplete(_ context.Context, op string, duration time.Duration, err error) {
	code := "OK"
	if err != nil {
		code = string(errors.CodeOrInternal(err))
	}
	m.batches.WithLabelValues(op, code).Inc()
	m.batchDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *Metrics) OnLayoutStart(_ context.Context, _ string, nodes int) {
	m.layoutNodes.Observe(float64(nodes))
}

func (m *Metrics) OnLayoutComplete(_ context.Context, algorithm string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.layouts.WithLabelValues(algorithm, outcome).Inc()
	m.layoutDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, duration time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}
