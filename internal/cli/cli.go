// Package cli implements the forcegraph command-line interface.
//
// # Commands
//
//   - render: settle a graph headlessly and write SVG, JSON, DOT, ASCII, PDF or PNG
//   - watch: live terminal view that reloads when the graph file changes
//   - serve: HTTP server with a websocket frame stream and Prometheus metrics
//   - cache: inspect and clear the layout cache
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "forcegraph"

	// defaultMaxFrames bounds headless settling when --ticks is not given.
	defaultMaxFrames = 1000
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer // rendered output and command results
	status io.Writer // human-facing status lines
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout, status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

func (c *CLI) ui() printer { return printer{w: c.status} }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "forcegraph lays out graphs with a force-directed simulation",
		Long:         `forcegraph runs a force-directed simulation over a graph of nodes and links and renders the settled layout, live in the terminal, or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Flags
// =============================================================================

// sceneFlags are the configuration flags shared by render, watch and serve.
// Only flags the user set override the config file.
type sceneFlags struct {
	configPath string
	width      float64
	height     float64
	seed       int64
	gravity    float64
	static     bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "config file (toml, yaml or json)")
	cmd.Flags().Float64Var(&f.width, "width", d.Width, "viewport width")
	cmd.Flags().Float64Var(&f.height, "height", d.Height, "viewport height")
	cmd.Flags().Int64Var(&f.seed, "seed", d.Sim.Seed, "simulation seed")
	cmd.Flags().Float64Var(&f.gravity, "gravity", d.Sim.Gravity, "many-body strength (negative repels)")
	cmd.Flags().BoolVar(&f.static, "static", false, "skip the simulation and keep explicit positions")
}

// load reads the config file, if any, and applies the changed flags.
func (f *sceneFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Height = f.height
	}
	if flags.Changed("seed") {
		cfg.Sim.Seed = f.seed
	}
	if flags.Changed("gravity") {
		cfg.Sim.Gravity = f.gravity
	}
	if flags.Changed("static") {
		cfg.StaticGraph = f.static
	}
	return cfg, cfg.Validate()
}

// cacheFlags select the layout cache backend.
type cacheFlags struct {
	noCache  bool
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVar(&f.redisURL, "redis", os.Getenv("FORCEGRAPH_REDIS_URL"), "redis URL for a shared layout cache")
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the selected cache. A local cache that cannot be created
// degrades to no caching.
func newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	switch {
	case f.noCache:
		return cache.NewNullCache(), nil
	case f.redisURL != "":
		return cache.NewRedisCache(ctx, f.redisURL, "")
	}
	dir, err := cacheDir()
	if err != nil {
		loggerFromContext(ctx).Warn("layout cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		loggerFromContext(ctx).Warn("layout cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// cacheDir returns the cache directory ($XDG_CACHE_HOME/forcegraph).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Helpers
// =============================================================================

// formatFor resolves the output format from the --format flag or, failing
// that, the output file extension. The default is svg.
func formatFor(flag, output string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	if i := strings.LastIndexByte(output, '.'); i >= 0 && i < len(output)-1 {
		if ext := strings.ToLower(output[i+1:]); ext != "txt" {
			return ext
		}
		return render.FormatASCII
	}
	return render.FormatSVG
}
