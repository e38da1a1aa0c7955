package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tricktrack/pkg/config"
	"github.com/matzehuels/tricktrack/pkg/errors"
	"github.com/matzehuels/tricktrack/pkg/hits"
	"github.com/matzehuels/tricktrack/pkg/pipeline"
)

// defaultShowTracks bounds the table printed when no output file is given.
const defaultShowTracks = 20

// runFlags are the automaton overrides shared by run and render.
type runFlags struct {
	minHits       int
	maxIterations int
	workers       int
	triplets      bool
	noCache       bool
	refresh       bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.minHits, "min-hits", 0, "minimum chain length in hits (default from config)")
	cmd.Flags().IntVar(&f.maxIterations, "max-iterations", 0, "bound on automaton generations, 0 runs until stable")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "worker goroutines, 0 uses all CPUs, 1 runs sequentially")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached result exists")
}

// apply copies the flags the user set onto cfg and validates the result.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("min-hits") {
		cfg.Automaton.MinHits = f.minHits
	}
	if flags.Changed("max-iterations") {
		cfg.Automaton.MaxIterations = f.maxIterations
	}
	if flags.Changed("workers") {
		cfg.Automaton.Workers = f.workers
	}
	if flags.Changed("triplets") {
		cfg.Automaton.TripletsOnly = f.triplets
		if f.triplets && !flags.Changed("min-hits") {
			cfg.Automaton.MinHits = errors.MinHits
		}
	}
	return cfg.Validate()
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var (
		flags runFlags
		out   runOutput
	)

	cmd := &cobra.Command{
		Use:   "run [event.json]",
		Short: "Seed track candidates from an event",
		Long: `Seed track candidates from an event.

The event file lists the hits and the doublets between them. The run command
links compatible doublets, evolves the cellular automaton and extracts every
chain of at least --min-hits hits. With --triplets it emits each compatible
pair of doublets instead.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			opts := cfg.Options()
			opts.Refresh = flags.refresh
			return c.runRun(cmd.Context(), cfg, args[0], opts, flags.noCache, out)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.triplets, "triplets", false, "emit compatible doublet pairs without evolving")
	cmd.Flags().StringVarP(&out.result, "output", "o", "", "write the result as JSON (default: print a table)")
	cmd.Flags().StringVar(&out.event, "save-event", "", "also write the parsed event as indented JSON")
	cmd.Flags().IntVar(&out.show, "show", defaultShowTracks, "tracks to print when no output file is given, 0 prints all")

	return cmd
}

// runOutput selects where run writes its result and the parsed event.
type runOutput struct {
	result string
	event  string
	show   int
}

func (c *CLI) runRun(ctx context.Context, cfg *config.Config, input string, opts pipeline.Options, noCache bool, out runOutput) error {
	d, err := readEvent(input)
	if err != nil {
		return err
	}
	if out.event != "" {
		if err := hits.ExportJSON(d, out.event); err != nil {
			return fmt.Errorf("save event: %w", err)
		}
	}
	logger := loggerFromContext(ctx)
	logger.Debug("loaded event", "hits", len(d.Hits()), "doublets", d.Len())

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Seeding %d doublets...", d.Len()))
	spinner.Start()

	result, err := runner.Execute(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Seeding failed")
		return fmt.Errorf("run: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Found %d ntuplets", len(result.Ntuplets)))

	if len(result.Ntuplets) == 0 {
		printWarning("No chain of %d hits passed the cuts", opts.MinHits)
	}

	if out.event != "" {
		printFile(out.event)
	}

	if out.result == "" {
		writeTracks(os.Stdout, result.Ntuplets, out.show)
		printStats(result.Stats, result.CacheHit)
		return nil
	}

	data, err := pipeline.MarshalResult(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out.result, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out.result, err)
	}
	printSuccess("Seeded %s", filepath.Base(input))
	printStats(result.Stats, result.CacheHit)
	printFile(out.result)
	return nil
}

// readEvent loads an event file, reporting a missing file and malformed
// content with distinct error codes.
func readEvent(path string) (*hits.Doublets, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "event %s", path)
	}
	d, err := hits.ImportJSON(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "load event %s", path)
	}
	return d, nil
}

// outputPath derives an output file name from the input, replacing its
// extension with ext.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + ext
}
