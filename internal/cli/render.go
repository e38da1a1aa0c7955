package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tricktrack/pkg/config"
	"github.com/matzehuels/tricktrack/pkg/pipeline"
)

// renderCommand creates the render command for drawing the cell graph.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  runFlags
		output string
	)
	ro := pipeline.RenderOptions{Format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render [event.json]",
		Short: "Draw the evolved cell graph",
		Long: `Draw the evolved cell graph of an event.

Every doublet becomes a node labelled with its index and automaton level.
Edges point from a cell to its compatible outer neighbors, and root cells
are highlighted. The output is Graphviz DOT or an SVG laid out with dot.

SVG output is cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(ro.Format); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			opts := cfg.Options()
			opts.Refresh = flags.refresh
			return c.runRender(cmd.Context(), cfg, args[0], opts, ro, flags.noCache, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&ro.Format, "format", "f", ro.Format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&ro.Detailed, "detailed", false, "label cells with hit indices and coordinates")
	cmd.Flags().BoolVar(&ro.HideIsolated, "hide-isolated", false, "omit cells without neighbors")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg *config.Config, input string, opts pipeline.Options, ro pipeline.RenderOptions, noCache bool, output string) error {
	d, err := readEvent(input)
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d cells...", d.Len()))
	spinner.Start()

	g, stats, err := runner.Graph(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Evolution failed")
		return fmt.Errorf("render: %w", err)
	}
	data, cached, err := runner.Render(ctx, g, opts, ro)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	path := outputPath(output, input, ro.Format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Rendered %s", ro.Format)
	printStats(stats, cached)
	printFile(path)
	return nil
}
