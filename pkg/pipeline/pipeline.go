// Package pipeline runs the track seeding stages for one event.
//
// This package implements the complete grow → evolve → extract pipeline that
// is shared by the CLI and the HTTP API, so that both entry points apply the
// same defaults, caching and logging.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Build: Create one cell per doublet of the event
//  2. Grow: Link every cell to its compatible inner cells
//  3. Evolve: Run the automaton until no level changes
//  4. Select: Pick the root cells at or above the minimum level
//  5. Extract: Walk outward from every root and emit the chains
//
// In triplets-only mode, stages 2 to 5 are replaced by a single pass that
// emits every compatible pair of cells directly.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Params:  automaton.Params{PtMin: 0.8, ThetaCut: 0.002, PhiCut: 0.2, RegionOriginRadius: 0.1},
//	    MinHits: 4,
//	}
//	result, err := runner.Execute(ctx, doublets, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range result.Ntuplets {
//	    fmt.Println(t.Hits)
//	}
//
// Run the graph stages only, for example to render the cell graph:
//
//	g, stats, err := runner.Graph(ctx, doublets, opts)
//	svg, hit, err := runner.Render(ctx, g, opts, pipeline.RenderOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tricktrack/pkg/automaton"
	"github.com/matzehuels/tricktrack/pkg/cache"
	"github.com/matzehuels/tricktrack/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMinHits is the minimum chain length in hits.
	DefaultMinHits = 4

	// DefaultMaxIterations runs the automaton until it converges. Levels
	// saturate at 255, so evolution always terminates.
	DefaultMaxIterations = 0
)

// Format constants for rendered graphs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Params are the compatibility cuts.
	Params automaton.Params `json:"params"`

	// MinHits is the minimum chain length in hits. Defaults to DefaultMinHits,
	// or 3 in triplets-only mode.
	MinHits int `json:"min_hits,omitempty"`

	// MinimumLevel is the root threshold. Nil means MinHits-2.
	MinimumLevel *int `json:"minimum_level,omitempty"`

	// MaxIterations bounds the number of generations; 0 runs until stable.
	MaxIterations int `json:"max_iterations,omitempty"`

	// TripletsOnly emits compatible cell pairs without evolving.
	TripletsOnly bool `json:"triplets_only,omitempty"`

	// Runtime options (not serialized)
	Workers  int           `json:"-"` // 0 uses all CPUs, 1 runs sequentially
	Refresh  bool          `json:"-"` // Skip cache lookups
	CacheTTL time.Duration `json:"-"`
	Logger   *log.Logger   `json:"-"` // Defaults to the runner's logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateFormat checks that a render format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if err := o.Params.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cuts")
	}
	if err := errors.ValidatePositive("ptmin", o.Params.PtMin); err != nil {
		return err
	}

	if o.MinHits == 0 {
		o.MinHits = DefaultMinHits
		if o.TripletsOnly {
			o.MinHits = errors.MinHits
		}
	}
	if err := errors.ValidateMinHits(o.MinHits); err != nil {
		return err
	}
	if o.TripletsOnly && o.MinHits != errors.MinHits {
		return errors.New(errors.ErrCodeInvalidInput, "triplets-only mode requires min_hits = %d, got %d", errors.MinHits, o.MinHits)
	}

	if o.MinimumLevel == nil {
		level := o.MinHits - 2
		o.MinimumLevel = &level
	} else if *o.MinimumLevel < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "minimum_level must not be negative, got %d", *o.MinimumLevel)
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_iterations must not be negative, got %d", o.MaxIterations)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}

	if o.CacheTTL == 0 {
		o.CacheTTL = cache.TTLResult
	}

	o.validated = true
	return nil
}

// Clone returns an unvalidated copy of o, so that request overrides applied
// to the copy are checked again.
func (o Options) Clone() Options {
	c := o
	c.validated = false
	if o.MinimumLevel != nil {
		level := *o.MinimumLevel
		c.MinimumLevel = &level
	}
	return c
}

// RootLevel returns the root threshold. It requires ValidateAndSetDefaults.
func (o *Options) RootLevel() uint {
	if o.MinimumLevel == nil {
		return 0
	}
	return uint(*o.MinimumLevel)
}

// ResultKeyOpts returns cache key options for pipeline results.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		PtMin:              o.Params.PtMin,
		RegionOriginX:      o.Params.RegionOriginX,
		RegionOriginY:      o.Params.RegionOriginY,
		RegionOriginRadius: o.Params.RegionOriginRadius,
		ThetaCut:           o.Params.ThetaCut,
		PhiCut:             o.Params.PhiCut,
		HardPtCut:          o.Params.HardPtCut,
		MinHits:            o.MinHits,
		MinimumLevel:       int(o.RootLevel()),
		MaxIterations:      o.MaxIterations,
		TripletsOnly:       o.TripletsOnly,
	}
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	mode := "evolve"
	if o.TripletsOnly {
		mode = "triplets"
	}
	return fmt.Sprintf("mode=%s min_hits=%d minimum_level=%d ptmin=%g", mode, o.MinHits, o.RootLevel(), o.Params.PtMin)
}
