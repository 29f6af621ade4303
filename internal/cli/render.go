package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/render/dot"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	scene    sceneFlags
	cache    cacheFlags
	output   string  // output file; stdout when empty
	format   string  // svg, json, dot, ascii, pdf, png
	ticks    int     // frame limit; 0 runs until the simulation rests
	zoom     float64 // zoom factor applied around the viewport centre
	focus    string  // node id to centre on
	graphviz bool    // draw svg/pdf/png through Graphviz instead of the native writer
	labels   bool    // draw node labels
	scale    float64 // png scale factor
	cols     int     // ascii columns
	rows     int     // ascii rows
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{labels: true, scale: 2, cols: 100, rows: 40}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Settle a graph and write the layout",
		Long: `Render runs the simulation headlessly until it comes to rest (or --ticks
frames have run) and writes the resulting frame.

Settled positions are cached, keyed by the graph contents and every
simulation setting, so rendering the same graph again skips the simulation.`,
		Example: `  forcegraph render graph.json -o graph.svg
  forcegraph render graph.yaml -f ascii
  forcegraph render graph.toml -o graph.png --graphviz --scale 3`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.scene.load(cmd)
			if err != nil {
				return err
			}
			opts.format = formatFor(opts.format, opts.output)
			if err := errors.ValidateFormat(opts.format, render.Formats...); err != nil {
				return err
			}
			if opts.output != "" {
				if err := errors.ValidatePath(opts.output); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], cfg, &opts)
		},
	}

	opts.scene.register(cmd)
	opts.cache.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, json, dot, ascii, pdf, png (default from -o, else svg)")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "stop after N frames (default: until the layout rests)")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 0, "zoom factor")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "centre the view on a node")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "render svg/pdf/png with Graphviz")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "ascii columns")
	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "ascii rows")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, cfg config.Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	format, err := graph.FormatFromPath(path)
	if err != nil {
		return err
	}
	g, err := graph.Unmarshal(data, format)
	if err != nil {
		return err
	}

	store, err := newCache(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	maxFrames := opts.ticks
	if maxFrames <= 0 {
		maxFrames = defaultMaxFrames
	}
	layoutKey := keyer.LayoutKey(graphHash(g), cache.LayoutOptsFromConfig(cfg, opts.ticks))

	cached := false
	if l, err := cache.LoadLayout(ctx, store, layoutKey); err == nil {
		g = l.Seed(g)
		cfg.StaticGraph = true
		cached = true
		logger.Debug("layout cache hit", "key", layoutKey)
	} else if !stderrors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("layout cache read failed", "error", err)
	}

	sc, err := scene.New(cfg, scene.WithLogger(component(logger, "scene")))
	if err != nil {
		return err
	}
	defer sc.Stop()
	if _, err := sc.Update(ctx, g); err != nil {
		return err
	}

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, "Settling layout...")
	spin.Start()
	frames, err := settle(ctx, sc, maxFrames, spin)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("layout settled", "nodes", sc.Nodes().Len(), "frames", frames, "cached", cached)

	if !cached {
		if err := cache.StoreLayout(ctx, store, layoutKey, sc.Layout()); err != nil {
			logger.Warn("layout cache write failed", "error", err)
		}
	}

	if opts.zoom > 0 {
		sc.ZoomBy(opts.zoom)
	}
	if opts.focus != "" {
		if err := sc.Focus(opts.focus); err != nil {
			return err
		}
	}
	f, err := sc.Frame(ctx)
	if err != nil {
		return err
	}

	out, err := c.encode(ctx, store, f, cfg, layoutKey, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := c.out.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	ui := c.ui()
	ui.success("Rendered %s", opts.format)
	ui.file(opts.output)
	ui.stats(sc.Nodes().Len(), sc.Links().Len(), cached)
	return nil
}

// settleBatch is how many frames run between spinner updates.
const settleBatch = 50

// settle runs sc until it rests or maxFrames frames have run, reporting the
// frame count on spin after every batch.
func settle(ctx context.Context, sc *scene.Scene, maxFrames int, spin *Spinner) (int, error) {
	total := 0
	for {
		batch := settleBatch
		if maxFrames > 0 {
			batch = min(batch, maxFrames-total)
		}
		if batch <= 0 {
			return total, nil
		}
		n, err := sc.Settle(ctx, batch)
		total += n
		if err != nil || n < batch {
			return total, err
		}
		spin.SetMessage(fmt.Sprintf("Settling layout... %d frames", total))
	}
}

// encode writes f in the requested format. Converted formats (pdf, png) are
// cached as artifacts of the layout, keyed also by the presentation settings
// of cfg.
func (c *CLI) encode(ctx context.Context, store cache.Cache, f render.Frame, cfg config.Config, layoutKey string, opts *renderOpts) ([]byte, error) {
	switch opts.format {
	case render.FormatJSON:
		return render.RenderJSON(f)
	case render.FormatDOT:
		return []byte(dot.ToDOT(f, dot.Options{Labels: opts.labels})), nil
	case render.FormatASCII:
		return []byte(render.RenderASCII(f, opts.cols, opts.rows)), nil
	case render.FormatSVG:
		return c.svg(ctx, f, opts)
	}

	keyOpts := cache.ArtifactOptsFromConfig(cfg, opts.format)
	keyOpts.Zoom, keyOpts.Labels, keyOpts.Scale = opts.zoom, opts.labels, opts.scale
	artifactKey := cache.NewDefaultKeyer().ArtifactKey(layoutKey, keyOpts)
	useArtifacts := opts.focus == "" && !opts.graphviz
	if useArtifacts {
		if data, err := cache.LoadArtifact(ctx, store, artifactKey); err == nil {
			return data, nil
		}
	}

	var data []byte
	var err error
	if opts.graphviz {
		src := dot.ToDOT(f, dot.Options{Labels: opts.labels})
		if opts.format == render.FormatPDF {
			data, err = dot.RenderPDF(ctx, src)
		} else {
			data, err = dot.RenderPNG(ctx, src, opts.scale)
		}
	} else {
		var svg []byte
		if svg, err = c.svg(ctx, f, opts); err != nil {
			return nil, err
		}
		if opts.format == render.FormatPDF {
			data, err = render.ToPDF(ctx, svg)
		} else {
			data, err = render.ToPNG(ctx, svg, opts.scale)
		}
	}
	if err != nil {
		return nil, err
	}
	if useArtifacts {
		if err := cache.StoreArtifact(ctx, store, artifactKey, data); err != nil {
			loggerFromContext(ctx).Warn("artifact cache write failed", "error", err)
		}
	}
	return data, nil
}

func (c *CLI) svg(ctx context.Context, f render.Frame, opts *renderOpts) ([]byte, error) {
	if opts.graphviz {
		return dot.RenderSVG(ctx, dot.ToDOT(f, dot.Options{Labels: opts.labels}))
	}
	var svgOpts []render.SVGOption
	if !opts.labels {
		svgOpts = append(svgOpts, render.WithoutLabels())
	}
	return render.RenderSVG(f, svgOpts...), nil
}
