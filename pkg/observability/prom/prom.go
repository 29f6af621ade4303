// Package prom implements the observability hooks with Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	m := prom.Register(reg)
//	http.Handle("/metrics", prom.Handler(reg))
//
// [Register] installs the returned [Metrics] as the global scene, cache and
// HTTP hooks.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

const namespace = "forcegraph"

// Metrics implements [observability.SceneHooks], [observability.CacheHooks]
// and [observability.HTTPHooks].
type Metrics struct {
	reconciles      *prometheus.CounterVec
	reconcileTime   prometheus.Histogram
	restarts        prometheus.Counter
	bodies          prometheus.Gauge
	ticks           prometheus.Counter
	renders         *prometheus.CounterVec
	renderTime      prometheus.Histogram
	elements        prometheus.Gauge
	cacheOps        *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		reconciles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scene",
			Name:      "reconciles_total",
			Help:      "Graph updates applied to the entity stores",
		}, []string{"topology"}),
		reconcileTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scene",
			Name:      "reconcile_duration_seconds",
			Help:      "Time spent reconciling a graph update",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		restarts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "restarts_total",
			Help:      "Simulation restarts caused by topology changes",
		}),
		bodies: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "bodies",
			Help:      "Bodies in the current simulation",
		}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "frames_total",
			Help:      "Simulation frames processed",
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "passes_total",
			Help:      "Render passes by outcome",
		}, []string{"status"}),
		renderTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Time spent building a frame",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		elements: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "elements",
			Help:      "Elements in the last rendered frame",
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache operations by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register creates metrics on reg and installs them as the global hooks.
func Register(reg prometheus.Registerer) *Metrics {
	m := New(reg)
	observability.SetSceneHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) OnReconcile(_ context.Context, _, _ int, changed bool, d time.Duration) {
	label := "unchanged"
	if changed {
		label = "changed"
	}
	m.reconciles.WithLabelValues(label).Inc()
	m.reconcileTime.Observe(d.Seconds())
}

func (m *Metrics) OnRestart(_ context.Context, bodies int) {
	m.restarts.Inc()
	m.bodies.Set(float64(bodies))
}

func (m *Metrics) OnTick(context.Context) { m.ticks.Inc() }

func (m *Metrics) OnRender(_ context.Context, elements int, d time.Duration, err error) {
	if err != nil {
		m.renders.WithLabelValues("error").Inc()
		return
	}
	m.renders.WithLabelValues("ok").Inc()
	m.renderTime.Observe(d.Seconds())
	m.elements.Set(float64(elements))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
