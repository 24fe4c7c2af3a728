package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/strata/pkg/graph"
	"github.com/matzehuels/strata/pkg/layout"
	"github.com/matzehuels/strata/pkg/pipeline"
)

// configFlags binds layout.Config fields to command-line flags. Flags the
// user sets override values loaded from --config.
type configFlags struct {
	path string
	cfg  layout.Config
}

func (f *configFlags) register(fs *pflag.FlagSet) {
	f.cfg = layout.DefaultConfig()
	fs.StringVarP(&f.path, "config", "c", "", "layout config file (.toml, .yaml)")
	fs.Float64Var(&f.cfg.HorizontalSpacing, "hspace", f.cfg.HorizontalSpacing, "minimum horizontal distance between vertices")
	fs.Float64Var(&f.cfg.VerticalSpacing, "vspace", f.cfg.VerticalSpacing, "distance between ranks")
	fs.IntVar(&f.cfg.MaxPasses, "passes", f.cfg.MaxPasses, "crossing-minimization sweep passes")
	fs.BoolVar(&f.cfg.Transpose, "transpose", f.cfg.Transpose, "swap adjacent vertices when it removes crossings")
	fs.BoolVar(&f.cfg.PostStraighten, "straighten", f.cfg.PostStraighten, "straighten long edges after coordinate assignment")
	fs.BoolVar(&f.cfg.EarlyStop, "early-stop", f.cfg.EarlyStop, "stop sweeping once crossings stop improving")
	fs.StringVar(&f.cfg.Layering, "layering", f.cfg.Layering, "layering: longest-path, top-down, coffman-graham")
	fs.IntVar(&f.cfg.MaxWidth, "max-width", f.cfg.MaxWidth, "rank width bound for coffman-graham (0: unbounded)")
	fs.IntVar(&f.cfg.LargeGraphEdges, "large-graph-edges", f.cfg.LargeGraphEdges, "edge count above which passes are capped (0: never)")
	fs.IntVar(&f.cfg.LargeGraphMaxPasses, "large-graph-passes", f.cfg.LargeGraphMaxPasses, "pass cap for large graphs")
}

// resolve loads the config file, if any, and applies explicitly set flags
// over it.
func (f *configFlags) resolve(fs *pflag.FlagSet) (layout.Config, error) {
	if f.path == "" {
		return f.cfg, f.cfg.Validate()
	}
	cfg, err := layout.LoadConfig(f.path)
	if err != nil {
		return layout.Config{}, err
	}
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "hspace":
			cfg.HorizontalSpacing = f.cfg.HorizontalSpacing
		case "vspace":
			cfg.VerticalSpacing = f.cfg.VerticalSpacing
		case "passes":
			cfg.MaxPasses = f.cfg.MaxPasses
		case "transpose":
			cfg.Transpose = f.cfg.Transpose
		case "straighten":
			cfg.PostStraighten = f.cfg.PostStraighten
		case "early-stop":
			cfg.EarlyStop = f.cfg.EarlyStop
		case "layering":
			cfg.Layering = f.cfg.Layering
		case "max-width":
			cfg.MaxWidth = f.cfg.MaxWidth
		case "large-graph-edges":
			cfg.LargeGraphEdges = f.cfg.LargeGraphEdges
		case "large-graph-passes":
			cfg.LargeGraphMaxPasses = f.cfg.LargeGraphMaxPasses
		}
	})
	return cfg, cfg.Validate()
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		jobs    int
		cflags  configFlags
		cache   cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "layout <graph.json>...",
		Short: "Compute layered layouts of graph documents",
		Long: `Compute layered layouts of graph documents.

Each input graph.json is laid out into <input>.layout.json, or into the file
given by --output. With several inputs, --output names a directory and the
graphs are laid out concurrently.

Results are cached locally; use --refresh to recompute or --no-cache to
bypass the cache entirely.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cflags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), &cache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if len(args) == 1 {
				return c.runLayout(cmd.Context(), runner, args[0], output, cfg, refresh)
			}
			return c.runLayoutAll(cmd.Context(), runner, args, output, cfg, refresh, jobs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, '-' for stdout, or a directory with several inputs")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute and overwrite cached layouts")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", pipeline.DefaultConcurrency, "layouts computed concurrently")
	cflags.register(cmd.Flags())
	cache.register(cmd)
	return cmd
}

func readRequest(input string, cfg layout.Config, refresh bool) (pipeline.Request, error) {
	d, err := graph.ReadGraphFile(input)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("load graph %s: %w", input, err)
	}
	return pipeline.Request{
		Name:    input,
		Graph:   graph.FromDAG(d),
		Config:  cfg,
		Refresh: refresh,
	}, nil
}

// runLayout lays out a single graph file.
func (c *CLI) runLayout(ctx context.Context, runner *pipeline.Runner, input, output string, cfg layout.Config, refresh bool) error {
	req, err := readRequest(input, cfg, refresh)
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, os.Stderr, "Computing layout...")
	spin.Start()
	resp, err := runner.Layout(ctx, req)
	if err != nil {
		spin.Fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.Stop()

	if output == "-" {
		data, err := graph.MarshalLayout(resp.Layout)
		if err != nil {
			return err
		}
		_, err = c.Out.Write(append(data, '\n'))
		return err
	}
	if output == "" {
		output = defaultOutput(input)
	}
	if err := graph.WriteLayoutFile(resp.Layout, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess(c.Out, "Layout complete")
	printFile(c.Out, output)
	printStats(c.Out, statsOf(resp))
	return nil
}

// runLayoutAll lays out several graph files concurrently. Every file is
// attempted; the error joins all failures.
func (c *CLI) runLayoutAll(ctx context.Context, runner *pipeline.Runner, inputs []string, outDir string, cfg layout.Config, refresh bool, jobs int) error {
	if outDir == "-" {
		return fmt.Errorf("--output - needs a single input")
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	var (
		reqs    []pipeline.Request
		outputs []string
		failed  int
	)
	for _, input := range inputs {
		req, err := readRequest(input, cfg, refresh)
		if err != nil {
			printError(c.Out, "%v", err)
			failed++
			continue
		}
		out := defaultOutput(input)
		if outDir != "" {
			out = filepath.Join(outDir, filepath.Base(out))
		}
		reqs = append(reqs, req)
		outputs = append(outputs, out)
	}

	logger := c.Logger.With("run", uuid.NewString())
	logger.Debug("batch layout", "inputs", len(inputs), "jobs", jobs)
	prog := newProgress(logger)
	responses, err := runner.LayoutAll(ctx, reqs, jobs)
	for i, resp := range responses {
		if resp == nil {
			continue
		}
		if werr := graph.WriteLayoutFile(resp.Layout, outputs[i]); werr != nil {
			printError(c.Out, "write output %s: %v", outputs[i], werr)
			failed++
			continue
		}
		printFile(c.Out, outputs[i])
		printStats(c.Out, statsOf(resp))
	}
	if err != nil {
		printError(c.Out, "%v", err)
		failed += len(responses) - countDone(responses)
	}
	prog.done("laid out graphs", "ok", len(inputs)-failed, "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d layouts failed", failed, len(inputs))
	}
	printSuccess(c.Out, "Laid out %d graphs", len(inputs))
	return nil
}

func countDone(responses []*pipeline.Response) int {
	n := 0
	for _, r := range responses {
		if r != nil {
			n++
		}
	}
	return n
}

// defaultOutput maps "dir/g.json" to "dir/g.layout.json".
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

func statsOf(resp *pipeline.Response) layoutStats {
	return layoutStats{
		nodes:     len(resp.Layout.Nodes),
		edges:     len(resp.Layout.Edges),
		crossings: resp.Layout.Crossings,
		reversed:  resp.Layout.Reversed,
		cached:    resp.CacheHit,
	}
}
