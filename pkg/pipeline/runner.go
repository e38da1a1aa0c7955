package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tricktrack/pkg/automaton"
	"github.com/matzehuels/tricktrack/pkg/cache"
	"github.com/matzehuels/tricktrack/pkg/errors"
	"github.com/matzehuels/tricktrack/pkg/hits"
	"github.com/matzehuels/tricktrack/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// EventHash returns the content hash of the doublets and their hits.
func EventHash(d *hits.Doublets) (string, error) {
	data, err := json.Marshal(hits.EventOf(d))
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	return cache.Hash(data), nil
}

// Execute runs the complete pipeline with caching.
func (r *Runner) Execute(ctx context.Context, d *hits.Doublets, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	eventHash, err := EventHash(d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash event")
	}
	key := r.Keyer.ResultKey(eventHash, opts.ResultKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if result, ok := r.cachedResult(ctx, key, opts.Logger); ok {
			opts.Logger.Info("loaded cached result",
				"ntuplets", len(result.Ntuplets),
				"event", eventHash[:12])
			return result, nil
		}
	}

	result, err := r.run(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.EventHash = eventHash

	if data, err := MarshalResult(result); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KeyTypeResult, len(data))
		}
	}
	return result, nil
}

func (r *Runner) cachedResult(ctx context.Context, key string, logger *log.Logger) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeResult)
		return nil, false
	}
	result, err := UnmarshalResult(data)
	if err != nil {
		// Corrupt entries are recomputed and overwritten.
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeResult)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyTypeResult)
	result.CacheHit = true
	return result, true
}

// run executes the stages without touching the cache.
func (r *Runner) run(ctx context.Context, d *hits.Doublets, opts Options) (*Result, error) {
	if opts.TripletsOnly {
		return r.triplets(ctx, d, opts)
	}

	g, stats, err := r.graph(ctx, d, opts)
	if err != nil {
		return nil, err
	}

	// Stages 4 and 5: Select and Extract
	hooks := observability.Pipeline()
	start := time.Now()
	roots := g.Roots(opts.RootLevel())
	var found []automaton.Ntuplet
	if opts.Workers == 1 {
		found = g.FindNtuplets(roots, opts.MinHits)
	} else {
		found, err = g.FindNtupletsParallel(ctx, roots, opts.MinHits, opts.Workers)
	}
	stats.ExtractTime = time.Since(start)
	hooks.OnExtractComplete(ctx, len(roots), len(found), stats.ExtractTime, err)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	stats.Roots = len(roots)
	stats.Ntuplets = len(found)

	opts.Logger.Info("extracted ntuplets",
		"roots", stats.Roots,
		"ntuplets", stats.Ntuplets,
		"min_hits", opts.MinHits,
		"duration", stats.ExtractTime)

	return &Result{Ntuplets: tracks(g.Cells, found), Stats: stats}, nil
}

// Graph runs the build, grow and evolve stages and returns the evolved graph.
// It ignores TripletsOnly; the cache is not consulted.
func (r *Runner) Graph(ctx context.Context, d *hits.Doublets, opts Options) (*automaton.Graph, Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, err
	}
	r.applyLogger(&opts)
	return r.graph(ctx, d, opts)
}

func (r *Runner) graph(ctx context.Context, d *hits.Doublets, opts Options) (*automaton.Graph, Stats, error) {
	hooks := observability.Pipeline()
	var stats Stats

	// Stage 1: Build
	g := automaton.NewGraph(d)
	stats.Cells = g.Len()

	// Stage 2: Grow
	hooks.OnGrowStart(ctx, g.Len())
	start := time.Now()
	var err error
	if opts.Workers == 1 {
		g.Grow(opts.Params)
	} else {
		err = g.GrowParallel(ctx, opts.Params, opts.Workers)
	}
	stats.GrowTime = time.Since(start)
	stats.Edges = g.EdgeCount()
	hooks.OnGrowComplete(ctx, stats.Cells, stats.Edges, stats.GrowTime, err)
	if err != nil {
		return nil, stats, fmt.Errorf("grow: %w", err)
	}

	opts.Logger.Info("grew cell graph",
		"cells", stats.Cells,
		"edges", stats.Edges,
		"duration", stats.GrowTime)

	// Stage 3: Evolve
	start = time.Now()
	stats.Iterations = g.EvolveUntilStable(opts.MaxIterations)
	stats.EvolveTime = time.Since(start)
	hooks.OnEvolveComplete(ctx, stats.Iterations, stats.EvolveTime)

	opts.Logger.Debug("evolved automaton",
		"iterations", stats.Iterations,
		"max_iterations", opts.MaxIterations,
		"duration", stats.EvolveTime)

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	return g, stats, nil
}

// triplets runs the push-mode growth stage.
func (r *Runner) triplets(ctx context.Context, d *hits.Doublets, opts Options) (*Result, error) {
	hooks := observability.Pipeline()
	g := automaton.NewGraph(d)

	hooks.OnGrowStart(ctx, g.Len())
	start := time.Now()
	found := g.Triplets(opts.Params)
	stats := Stats{
		Cells:    g.Len(),
		Edges:    len(found),
		Ntuplets: len(found),
		GrowTime: time.Since(start),
	}
	hooks.OnGrowComplete(ctx, stats.Cells, stats.Edges, stats.GrowTime, nil)

	opts.Logger.Info("emitted triplets",
		"cells", stats.Cells,
		"triplets", stats.Ntuplets,
		"duration", stats.GrowTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Ntuplets: tracks(g.Cells, found), Stats: stats}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
