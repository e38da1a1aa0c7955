// Package prom implements the observability hooks with Prometheus metrics.
//
// All metrics live in the "tricktrack" namespace:
//
//	tricktrack_pipeline_stage_duration_seconds{stage}
//	tricktrack_pipeline_stage_errors_total{stage}
//	tricktrack_pipeline_cells
//	tricktrack_pipeline_edges
//	tricktrack_pipeline_iterations
//	tricktrack_pipeline_ntuplets
//	tricktrack_cache_events_total{key_type, result}
//	tricktrack_cache_written_bytes_total{key_type}
//	tricktrack_http_requests_total{method, route, status}
//	tricktrack_http_request_duration_seconds{method, route}
//	tricktrack_http_in_flight_requests
//
// Register the hooks once at startup and serve [Hooks.Handler] on /metrics.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/tricktrack/pkg/observability"
)

const namespace = "tricktrack"

// Pipeline stage labels.
const (
	StageGrow    = "grow"
	StageEvolve  = "evolve"
	StageExtract = "extract"
)

// Hooks records pipeline, cache and HTTP events as Prometheus metrics.
// It is safe for concurrent use.
type Hooks struct {
	gatherer prometheus.Gatherer

	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec
	Cells         prometheus.Histogram
	Edges         prometheus.Histogram
	Iterations    prometheus.Histogram
	Ntuplets      prometheus.Histogram

	CacheEvents  *prometheus.CounterVec
	CacheWritten *prometheus.CounterVec

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// New creates the metrics and registers them with reg.
// A nil reg uses a fresh registry. Registering twice on the same registry panics.
func New(reg *prometheus.Registry) *Hooks {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	sizes := prometheus.ExponentialBuckets(1, 4, 10)

	return &Hooks{
		gatherer: reg,

		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of automaton stages in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		StageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_errors_total",
			Help:      "Automaton stages that returned an error",
		}, []string{"stage"}),
		Cells: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "cells",
			Help:      "Cells per event",
			Buckets:   sizes,
		}),
		Edges: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "edges",
			Help:      "Outer-neighbor links or triplets per event",
			Buckets:   sizes,
		}),
		Iterations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "iterations",
			Help:      "Generations until the automaton converged",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 16, 32, 255},
		}),
		Ntuplets: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "ntuplets",
			Help:      "Chains extracted per event",
			Buckets:   sizes,
		}),

		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache lookups and writes by key type and result",
		}, []string{"key_type", "result"}),
		CacheWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),

		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Requests currently being served",
		}),
	}
}

// Register installs h as the global pipeline, cache and HTTP hooks.
func (h *Hooks) Register() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// Handler serves the metrics in the Prometheus exposition format.
func (h *Hooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})
}

// =============================================================================
// Pipeline
// =============================================================================

func (h *Hooks) OnGrowStart(context.Context, int) {}

func (h *Hooks) OnGrowComplete(_ context.Context, cells, edges int, d time.Duration, err error) {
	h.StageDuration.WithLabelValues(StageGrow).Observe(d.Seconds())
	if err != nil {
		h.StageErrors.WithLabelValues(StageGrow).Inc()
		return
	}
	h.Cells.Observe(float64(cells))
	h.Edges.Observe(float64(edges))
}

func (h *Hooks) OnEvolveComplete(_ context.Context, iterations int, d time.Duration) {
	h.StageDuration.WithLabelValues(StageEvolve).Observe(d.Seconds())
	h.Iterations.Observe(float64(iterations))
}

func (h *Hooks) OnExtractComplete(_ context.Context, _, ntuplets int, d time.Duration, err error) {
	h.StageDuration.WithLabelValues(StageExtract).Observe(d.Seconds())
	if err != nil {
		h.StageErrors.WithLabelValues(StageExtract).Inc()
		return
	}
	h.Ntuplets.Observe(float64(ntuplets))
}

// =============================================================================
// Cache
// =============================================================================

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheEvents.WithLabelValues(keyType, "set").Inc()
	h.CacheWritten.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP
// =============================================================================

func (h *Hooks) OnRequest(context.Context, string, string) {
	h.InFlight.Inc()
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.InFlight.Dec()
	h.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
