package scene

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
	"github.com/matzehuels/forcegraph/pkg/bridge"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/store"
	"github.com/matzehuels/forcegraph/pkg/traverse"
)

// Scene is one interactive graph. A Scene is not safe for concurrent use;
// see [Scene.Run].
type Scene struct {
	id      string
	cfg     config.Config
	logger  *log.Logger
	factory bridge.Factory
	clock   func() time.Time

	nodes  *store.NodeStore
	links  *store.LinkStore
	index  *adjacency.Index
	bridge *bridge.Bridge

	transform Transform
	focused   string
	input     graph.Graph
	loaded    bool
	frames    int
}

// Option configures a [Scene].
type Option func(*Scene)

// WithID sets the scene id. By default a random UUID is used.
func WithID(id string) Option { return func(s *Scene) { s.id = id } }

// WithLogger sets the logger. By default log.Default() is used.
func WithLogger(l *log.Logger) Option { return func(s *Scene) { s.logger = l } }

// WithFactory replaces the physics engine factory.
func WithFactory(f bridge.Factory) Option { return func(s *Scene) { s.factory = f } }

// WithClock replaces time.Now for render throttling.
func WithClock(now func() time.Time) Option { return func(s *Scene) { s.clock = now } }

// New creates an empty scene. The configuration is validated.
func New(cfg config.Config, opts ...Option) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scene{
		cfg:       cfg,
		logger:    log.Default(),
		clock:     time.Now,
		nodes:     store.NewNodeStore(cfg.NodeDefaults()),
		links:     store.NewLinkStore(cfg.LinkDefaults()),
		index:     adjacency.Empty(),
		transform: Identity(),
	}
	if cfg.InitialZoom > 0 {
		s.transform.K = cfg.InitialZoom
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.factory == nil {
		s.factory = bridge.PhysicsFactory(cfg)
	}
	s.logger = s.logger.With("scene", s.id)
	s.bridge = bridge.New(s.factory, cfg, bridge.WithClock(s.clock))
	return s, nil
}

// ID returns the scene id.
func (s *Scene) ID() string { return s.id }

// Config returns the scene configuration.
func (s *Scene) Config() config.Config { return s.cfg }

// Nodes returns the node store.
func (s *Scene) Nodes() *store.NodeStore { return s.nodes }

// Links returns the link store.
func (s *Scene) Links() *store.LinkStore { return s.links }

// Index returns the current adjacency index.
func (s *Scene) Index() *adjacency.Index { return s.index }

// Bridge returns the simulation bridge.
func (s *Scene) Bridge() *bridge.Bridge { return s.bridge }

// Input returns the last graph passed to [Scene.Update].
func (s *Scene) Input() graph.Graph { return s.input }

// Update reconciles the scene with g and reports whether the topology
// changed. A topology change rebuilds the adjacency index and restarts the
// simulation; a style-only change just requests a re-render.
//
// Links whose endpoints are unknown are skipped and logged at debug level.
func (s *Scene) Update(ctx context.Context, g graph.Graph) (bool, error) {
	if err := g.Validate(); err != nil {
		return false, err
	}

	start := time.Now()
	nodesChanged := s.nodes.Reconcile(g.Nodes, g.NodeConfig)
	linksChanged := s.links.Reconcile(g.Links, g.LinkConfig, s.nodes)
	changed := nodesChanged || linksChanged || !s.loaded
	s.loaded = true

	for _, k := range s.links.Skipped() {
		s.logger.Debug("skipping link with unknown endpoint", "link", k)
	}

	if changed {
		s.index = adjacency.Build(g.Links, s.links, s.nodes)
		s.bridge.Restart(s.nodes.Bodies(), s.links.Springs())
		observability.Scene().OnRestart(ctx, s.nodes.Len())
	} else {
		s.bridge.Request()
	}

	d := time.Since(start)
	observability.Scene().OnReconcile(ctx, s.nodes.Len(), s.links.Len(), changed, d)
	s.logger.Debug("reconciled",
		"nodes", s.nodes.Len(),
		"links", s.links.Len(),
		"changed", changed,
		"duration", d)

	if g.FocusedNodeID != s.input.FocusedNodeID {
		if g.FocusedNodeID == "" {
			s.Unfocus()
		} else if err := s.Focus(g.FocusedNodeID); err != nil {
			s.logger.Debug("focus target not in graph", "node", g.FocusedNodeID)
		}
	}
	s.input = g
	return changed, nil
}

// Tick advances the simulation by one frame and reports whether a
// re-render is due.
func (s *Scene) Tick(ctx context.Context) bool {
	if s.bridge.State() == bridge.Running {
		s.frames++
		observability.Scene().OnTick(ctx)
	}
	return s.bridge.Frame()
}

// Settle ticks until the simulation comes to rest, maxFrames frames have
// run, or ctx is done. It returns the number of frames run. maxFrames <= 0
// means no limit.
func (s *Scene) Settle(ctx context.Context, maxFrames int) (int, error) {
	n := 0
	for s.bridge.State() == bridge.Running && (maxFrames <= 0 || n < maxFrames) {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		s.Tick(ctx)
		n++
	}
	return n, nil
}

// Frame builds the current render frame.
//
// Every reachable link is checked against the node store; a link that refers
// to a node the store does not hold is an internal consistency failure and
// aborts the pass with an [errors.ErrCodeInternal] error.
func (s *Scene) Frame(ctx context.Context) (render.Frame, error) {
	start := time.Now()
	res := traverse.Walk(s.nodes.Root(), s.index)
	if err := s.verify(res); err != nil {
		observability.Scene().OnRender(ctx, 0, time.Since(start), err)
		return render.Frame{}, err
	}

	f := render.Build(res, render.FrameOptions{
		Width:   s.cfg.Width,
		Height:  s.cfg.Height,
		ViewBox: s.transform.ViewBox(s.cfg.Width, s.cfg.Height),
		Scale:   s.transform.scale(),
		Focused: s.focused,
	})
	f.Ticks = s.frames
	observability.Scene().OnRender(ctx, len(f.Elements), time.Since(start), nil)
	return f, nil
}

func (s *Scene) verify(res *traverse.Result) error {
	for _, l := range res.Links {
		for _, end := range []*store.Node{l.Source, l.Target} {
			n, err := s.nodes.Get(end.ID)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "link %s", l.Key)
			}
			if n != end {
				return errors.Internal("link %s refers to a replaced node %q", l.Key, end.ID)
			}
		}
	}
	return nil
}

// Layout returns the current position of every node in store order.
func (s *Scene) Layout() graph.Layout {
	l := graph.Layout{Width: s.cfg.Width, Height: s.cfg.Height, Ticks: s.frames}
	for _, n := range s.nodes.Nodes() {
		l.Positions = append(l.Positions, graph.NodePosition{ID: n.ID, X: n.Body.X, Y: n.Body.Y})
	}
	return l
}

// Stop halts the simulation.
func (s *Scene) Stop() { s.bridge.Stop() }

// =============================================================================
// Drag
// =============================================================================

func (s *Scene) lookup(id string) (*store.Node, error) {
	n, ok := s.nodes.Lookup(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	return n, nil
}

// DragStart pins node id where it is and wakes the simulation.
func (s *Scene) DragStart(id string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !s.bridge.DragStart(n) {
		return errors.New(errors.ErrCodeUnsupported, "dragging is disabled")
	}
	return nil
}

// DragMove moves the pin of node id by a screen-space delta.
func (s *Scene) DragMove(id string, dx, dy float64) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.bridge.DragMove(n, dx, dy, s.transform.scale())
	return nil
}

// DragEnd releases node id.
func (s *Scene) DragEnd(id string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.bridge.DragEnd(n)
	return nil
}

// =============================================================================
// Zoom and Focus
// =============================================================================

// Transform returns the current pan and zoom state.
func (s *Scene) Transform() Transform { return s.transform }

// SetTransform replaces the pan and zoom state. K is clamped to the
// configured zoom range.
func (s *Scene) SetTransform(t Transform) {
	s.transform = t.Clamp(s.cfg.MinZoom, s.cfg.MaxZoom)
	s.bridge.Request()
}

// ZoomBy scales the view by factor around the viewport centre.
func (s *Scene) ZoomBy(factor float64) {
	s.transform = s.transform.ScaleAround(factor, s.cfg.Width/2, s.cfg.Height/2, s.cfg.MinZoom, s.cfg.MaxZoom)
	s.bridge.Request()
}

// ResetZoom restores the identity transform.
func (s *Scene) ResetZoom() {
	s.transform = Identity()
	s.bridge.Request()
}

// Focus centres the view on node id at the configured focus zoom.
func (s *Scene) Focus(id string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	k := min(max(s.cfg.FocusZoom, s.cfg.MinZoom), s.cfg.MaxZoom)
	s.transform = FocusOn(n.Body.X, n.Body.Y, s.cfg.Width, s.cfg.Height, k)
	s.focused = id
	s.bridge.Request()
	return nil
}

// Unfocus clears the focused node. The transform is left as is.
func (s *Scene) Unfocus() {
	s.focused = ""
	s.bridge.Request()
}

// Focused returns the focused node id, if any.
func (s *Scene) Focused() string { return s.focused }
