package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tricktrack/internal/server"
	"github.com/matzehuels/tricktrack/pkg/cache"
	"github.com/matzehuels/tricktrack/pkg/observability/prom"
	"github.com/matzehuels/tricktrack/pkg/pipeline"
)

const (
	defaultAddr = ":8080"

	// apiKeyScope separates API cache entries from the CLI's.
	apiKeyScope = "api:"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the seeding pipeline over HTTP",
		Long: `Serve the seeding pipeline over HTTP.

POST an event to /v1/runs to seed it, then fetch the stored run from
/v1/runs/{id}. Runs are kept in memory or in MongoDB depending on
store.backend. Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, metrics bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)

	cc, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), apiKeyScope), logger)
	defer runner.Close()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	var opts []server.Option
	if metrics {
		hooks := prom.New(nil)
		hooks.Register()
		opts = append(opts, server.WithMetrics(hooks.Handler()))
	}

	logger.Info("starting server",
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend,
		"metrics", metrics)
	return server.New(runner, st, cfg.Options(), logger, opts...).ListenAndServe(ctx, addr)
}
