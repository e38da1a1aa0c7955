package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/tricktrack/pkg/automaton"
	"github.com/matzehuels/tricktrack/pkg/cache"
	"github.com/matzehuels/tricktrack/pkg/observability"
	"github.com/matzehuels/tricktrack/pkg/render/nodelink"
)

// RenderOptions configures the cell graph diagram.
type RenderOptions struct {
	Format       string `json:"format"`
	Detailed     bool   `json:"detailed,omitempty"`
	HideIsolated bool   `json:"hide_isolated,omitempty"`
}

// Render draws an evolved graph in the requested format. Root cells are
// highlighted using the options' root threshold. SVG output is cached under
// the hash of its DOT source; the returned bool reports a cache hit.
func (r *Runner) Render(ctx context.Context, g *automaton.Graph, opts Options, ro RenderOptions) ([]byte, bool, error) {
	if err := ValidateFormat(ro.Format); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	dot := nodelink.ToDOT(g, nodelink.Options{
		Detailed:     ro.Detailed,
		MinimumLevel: opts.RootLevel(),
		HideIsolated: ro.HideIsolated,
	})
	if ro.Format == FormatDOT {
		return []byte(dot), false, nil
	}

	key := r.Keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: ro.Format})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeArtifact)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeArtifact)
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", ro.Format, err)
	}
	opts.Logger.Debug("rendered cell graph", "format", ro.Format, "bytes", len(svg))

	if err := r.Cache.Set(ctx, key, svg, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeArtifact, len(svg))
	}
	return svg, false, nil
}
