// Package cli implements the strata command-line interface.
//
// # Commands
//
//   - layout: lay out one or more graph.json files into layout.json files
//   - serve: run the HTTP layout service
//   - fmt: validate a graph document and rewrite it in canonical form
//   - cache: inspect and clear the layout cache
//   - version: print build information
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/strata/pkg/buildinfo"
	"github.com/matzehuels/strata/pkg/cache"
	"github.com/matzehuels/strata/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "strata"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives command output. Logs go to the logger's writer.
	Out io.Writer
}

// New creates a CLI that logs to w and prints to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Strata lays out directed graphs in layers",
		Long:         `Strata computes layered (Sugiyama-style) drawings of directed graphs: ranks, crossing-minimized orders, coordinates and edge routes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.fmtCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printKeyValue(c.Out, "version", buildinfo.Version)
			printKeyValue(c.Out, "commit", buildinfo.Commit)
			printKeyValue(c.Out, "built", buildinfo.Date)
		},
	}
}

// cacheFlags selects the cache backend shared by layout, serve and cache.
type cacheFlags struct {
	noCache  bool
	dir      string
	redis    string
	password string
	db       int
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.dir, "cache-dir", "", "file cache directory (default: $XDG_CACHE_HOME/strata)")
	cmd.Flags().StringVar(&f.redis, "redis", "", "use the Redis cache at host:port instead of the file cache")
	cmd.Flags().StringVar(&f.password, "redis-password", os.Getenv("STRATA_REDIS_PASSWORD"), "Redis password")
	cmd.Flags().IntVar(&f.db, "redis-db", 0, "Redis database")
}

// open returns the selected cache. A file cache whose directory cannot be
// determined degrades to no caching.
func (f *cacheFlags) open(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	switch {
	case f.noCache:
		return cache.NewNullCache(), nil
	case f.redis != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:        f.redis,
			Password:    f.password,
			DB:          f.db,
			Prefix:      appName + ":",
			DialTimeout: 5 * time.Second,
		})
	}
	dir := f.dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newRunner creates a pipeline runner whose cache keys are scoped to the
// build version.
func (c *CLI) newRunner(ctx context.Context, f *cacheFlags) (*pipeline.Runner, error) {
	store, err := f.open(ctx, c.Logger)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/strata/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
