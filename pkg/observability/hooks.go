// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about automaton stages, cache operations, and API requests.
//
// # Architecture
//
// Each event category has a hook interface with a no-op default. Hooks are
// registered by main, not by libraries, so the core packages never import a
// metrics backend. The prom subpackage provides a Prometheus implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := prom.New(nil)
//	    observability.SetPipelineHooks(h)
//	    observability.SetCacheHooks(h)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnGrowStart(ctx, g.Len())
//	// ... grow the graph ...
//	observability.Pipeline().OnGrowComplete(ctx, g.Len(), g.EdgeCount(), duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the track seeding pipeline.
type PipelineHooks interface {
	// Growth events. Edges counts outer-neighbor links, or triplets in
	// push mode.
	OnGrowStart(ctx context.Context, cells int)
	OnGrowComplete(ctx context.Context, cells, edges int, duration time.Duration, err error)

	// OnEvolveComplete records the number of generations until convergence.
	OnEvolveComplete(ctx context.Context, iterations int, duration time.Duration)

	// OnExtractComplete records chain extraction from the root cells.
	OnExtractComplete(ctx context.Context, roots, ntuplets int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request before routing.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response to a request. Route is the matched
	// pattern.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGrowStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnGrowComplete(context.Context, int, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnEvolveComplete(context.Context, int, time.Duration)              {}
func (NoopPipelineHooks) OnExtractComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds the active implementation of one hook category. Lookups are
// lock-free because they run on every cache access and request.
type slot[T any] struct {
	active atomic.Pointer[T]
	noop   T
}

func newSlot[T any](noop T) *slot[T] {
	s := &slot[T]{noop: noop}
	s.reset()
	return s
}

func (s *slot[T]) get() T  { return *s.active.Load() }
func (s *slot[T]) set(h T) { s.active.Store(&h) }
func (s *slot[T]) reset()  { s.set(s.noop) }

var (
	pipelineHooks = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheHooks    = newSlot[CacheHooks](NoopCacheHooks{})
	httpHooks     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks replaces the pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.set(h)
	}
}

// SetCacheHooks replaces the cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.set(h)
	}
}

// SetHTTPHooks replaces the HTTP hooks. A nil h is ignored; register before
// the server starts so early requests are counted.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.set(h)
	}
}

// Pipeline returns the active pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.get() }

// Cache returns the active cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// HTTP returns the active HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.get() }

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	pipelineHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
