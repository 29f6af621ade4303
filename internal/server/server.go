// Package server exposes a running scene over HTTP.
//
// The scene is owned by the goroutine started in [Server.Run]; handlers never
// touch it directly. Mutations are sent as [scene.Event] values and each
// handler waits for the loop to apply its event. Finished frames are cached
// for GET requests and pushed to websocket subscribers.
//
// # Routes
//
//	GET  /frame       latest frame as JSON
//	GET  /graph.svg   latest frame as SVG
//	GET  /graph.dot   latest frame as Graphviz DOT
//	GET  /layout      current node positions
//	PUT  /graph       replace the input graph (JSON, YAML or TOML body)
//	POST /drag        {"id", "phase": start|move|end, "dx", "dy"}
//	POST /zoom        {"factor"} | {"reset": true} | {"transform": {"x","y","k"}}
//	POST /focus       {"id"}; an empty id clears the focus
//	GET  /ws          frame stream
//	GET  /metrics     Prometheus metrics, when enabled
//	GET  /healthz
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability/prom"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// DefaultFrameInterval drives the simulation at roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Server serves one scene.
type Server struct {
	scene    *scene.Scene
	logger   *log.Logger
	interval time.Duration
	metrics  prometheus.Gatherer

	events chan scene.Event
	done   chan struct{}
	hub    *hub

	mu     sync.RWMutex
	latest *render.Frame

	router chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. By default log.Default() is used.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithFrameInterval sets how often the simulation advances.
func WithFrameInterval(d time.Duration) Option { return func(s *Server) { s.interval = d } }

// WithMetrics mounts GET /metrics for g.
func WithMetrics(g prometheus.Gatherer) Option { return func(s *Server) { s.metrics = g } }

// New creates a server for sc. sc must not be used by anything else once
// [Server.Run] is called.
func New(sc *scene.Scene, opts ...Option) *Server {
	s := &Server{
		scene:    sc,
		logger:   log.Default(),
		interval: DefaultFrameInterval,
		events:   make(chan scene.Event, 16),
		done:     make(chan struct{}),
		hub:      newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Get("/frame", s.handleFrame)
	r.Get("/graph.svg", s.handleSVG)
	r.Get("/graph.dot", s.handleDOT)
	r.Get("/layout", s.handleLayout)
	r.Put("/graph", s.handlePutGraph)
	r.Post("/drag", s.handleDrag)
	r.Post("/zoom", s.handleZoom)
	r.Post("/focus", s.handleFocus)
	r.Get("/ws", s.handleWS)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", prom.Handler(s.metrics))
	}
	return r
}

// Run drives the scene until ctx is done. It returns nil on cancellation.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.hub.closeAll()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	err := s.scene.Run(ctx, ticker.C, s.events, s.publish)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Update replaces the scene's input graph and waits until it is applied.
func (s *Server) Update(ctx context.Context, g graph.Graph) error {
	return s.send(ctx, scene.UpdateEvent(g))
}

// Frame returns the most recently published frame.
func (s *Server) Frame() (render.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return render.Frame{}, false
	}
	return *s.latest, true
}

func (s *Server) publish(f render.Frame) error {
	s.mu.Lock()
	s.latest = &f
	s.mu.Unlock()

	data, err := render.RenderJSON(f)
	if err != nil {
		s.logger.Warn("frame not published", "error", err)
		return nil
	}
	s.hub.broadcast(data)
	return nil
}

// send queues ev on the scene loop and waits for its result.
func (s *Server) send(ctx context.Context, ev scene.Event) error {
	reply := make(chan error, 1)
	select {
	case s.events <- scene.WithReply(ev, reply):
	case <-s.done:
		return errors.New(errors.ErrCodeUnsupported, "scene is not running")
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-s.done:
		return errors.New(errors.ErrCodeUnsupported, "scene is not running")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// query runs fn on the scene loop.
func (s *Server) query(ctx context.Context, fn func(*scene.Scene)) error {
	return s.send(ctx, func(_ context.Context, sc *scene.Scene) error {
		fn(sc)
		return nil
	})
}
