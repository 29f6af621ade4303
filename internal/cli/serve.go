package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcegraph/internal/server"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability/prom"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	scene     sceneFlags
	cache     cacheFlags
	addr      string
	watch     bool
	noMetrics bool
	fps       int
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: "localhost:8080", fps: 60}

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a live layout over HTTP",
		Long: `Serve runs the simulation and exposes it over HTTP. Frames are
available as JSON, SVG and DOT, streamed over a websocket at /ws, and the
graph can be replaced, dragged, zoomed and focused through the API.

With --watch the graph file is re-read whenever it changes.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.scene.load(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), args[0], cfg, &opts)
		},
	}

	opts.scene.register(cmd)
	opts.cache.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the graph when the file changes")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")
	cmd.Flags().IntVar(&opts.fps, "fps", opts.fps, "simulation frames per second")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, cfg config.Config, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	g, err := graph.ReadFile(path)
	if err != nil {
		return err
	}

	sc, err := scene.New(cfg, scene.WithLogger(component(logger, "scene")))
	if err != nil {
		return err
	}

	// A previous serve snapshot, or else a settled render, gives the first
	// frame its positions. The scene keeps simulating either way.
	store, err := newCache(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer store.Close()
	snap := newSnapshot(g, cfg)
	for _, key := range []string{snap.key(g), snap.settledKey(g)} {
		if l, err := cache.LoadLayout(ctx, store, key); err == nil {
			snap.seed(g, l)
			break
		}
	}
	if _, err := sc.Update(ctx, snap.seeded); err != nil {
		return err
	}

	srvOpts := []server.Option{
		server.WithLogger(component(logger, "server")),
		server.WithFrameInterval(time.Second / time.Duration(max(opts.fps, 1))),
	}
	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom.Register(reg)
		srvOpts = append(srvOpts, server.WithMetrics(reg))
	}
	srv := server.New(sc, srvOpts...)

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}

	ui := c.ui()
	ui.success("Serving %s", path)
	ui.keyValue("frame", StyleLink.Render("http://"+ln.Addr().String()+"/graph.svg"))
	ui.keyValue("stream", StyleLink.Render("ws://"+ln.Addr().String()+"/ws"))
	if !opts.noMetrics {
		ui.keyValue("metrics", StyleLink.Render("http://"+ln.Addr().String()+"/metrics"))
	}
	ui.stats(len(g.Nodes), len(g.Links), false)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return srv.Run(ctx) })
	eg.Go(func() error {
		if err := httpSrv.Serve(ln); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if opts.watch {
		eg.Go(func() error {
			return watchGraph(ctx, path,
				func(g graph.Graph) {
					if err := srv.Update(ctx, g); err != nil {
						logger.Warn("reload rejected", "error", err)
						return
					}
					logger.Info("graph reloaded", "nodes", len(g.Nodes), "links", len(g.Links))
				},
				func(err error) { logger.Warn("reload failed", "error", err) },
			)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	// The scene loop has exited, so the scene can be read directly. Persist
	// every node's position so a restart begins where this run ended.
	storeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.StoreLayout(storeCtx, store, snap.key(sc.Input()), sc.Layout()); err != nil {
		logger.Warn("layout cache write failed", "error", err)
	}
	ui.warning("Server stopped")
	return nil
}

// snapshot keys the positions a serve run leaves behind. They are stored
// apart from settled render layouts because a live scene may be mid
// simulation.
type snapshot struct {
	opts       cache.LayoutKeyOpts
	rawHash    string
	seededHash string
	seeded     graph.Graph
}

func newSnapshot(g graph.Graph, cfg config.Config) *snapshot {
	h := graphHash(g)
	return &snapshot{
		opts:       cache.LayoutOptsFromConfig(cfg, 0),
		rawHash:    h,
		seededHash: h,
		seeded:     g,
	}
}

// seed applies l to the initial graph. The seeded graph still hashes as the
// file it came from.
func (s *snapshot) seed(g graph.Graph, l graph.Layout) {
	s.seeded = l.Seed(g)
	s.seededHash = graphHash(s.seeded)
}

func (s *snapshot) hash(input graph.Graph) string {
	if h := graphHash(input); h != s.seededHash {
		return h
	}
	return s.rawHash
}

// key is the live snapshot key for the scene's current input.
func (s *snapshot) key(input graph.Graph) string {
	opts := s.opts
	opts.Live = true
	return cache.NewDefaultKeyer().LayoutKey(s.hash(input), opts)
}

// settledKey is the key render uses for the same input with default ticks.
func (s *snapshot) settledKey(input graph.Graph) string {
	return cache.NewDefaultKeyer().LayoutKey(s.hash(input), s.opts)
}

// graphHash hashes the canonical JSON form of g so equivalent files in
// different formats share cache entries.
func graphHash(g graph.Graph) string {
	var buf bytes.Buffer
	if err := graph.Write(g, &buf, graph.FormatJSON); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}
