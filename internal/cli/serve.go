package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/strata/internal/server"
	"github.com/matzehuels/strata/pkg/buildinfo"
)

// serveCommand creates the serve command that runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		timeout   time.Duration
		maxBody   int64
		noMetrics bool
		cflags    configFlags
		cache     cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

POST /v1/layout accepts {"graph": {...}, "config": {...}} and answers with the
layout. Layout flags and --config set the defaults for fields a request
omits. Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := cflags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), &cache)
			if err != nil {
				return err
			}
			defer runner.Close()
			if cache.noCache {
				printWarning(c.Out, "Caching disabled")
			}

			cfg := server.Config{
				Addr:          addr,
				Defaults:      defaults,
				LayoutTimeout: timeout,
				MaxBodyBytes:  maxBody,
				Version:       buildinfo.Version,
				Runner:        runner,
				Logger:        c.Logger,
			}
			if !noMetrics {
				cfg.Metrics = server.NewMetrics()
				cfg.Metrics.Install()
			}

			printInfo(c.Out, "Serving on %s", styleLink.Render("http://"+addr))
			return server.New(cfg).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultLayoutTimeout, "per-request layout timeout")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable /metrics")
	cflags.register(cmd.Flags())
	cache.register(cmd)
	return cmd
}
