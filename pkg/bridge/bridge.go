package bridge

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/physics"
	"github.com/matzehuels/forcegraph/pkg/store"
)

// State is the lifecycle state of a [Bridge].
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Bridge drives an [Engine] on behalf of a scene.
//
// A Bridge is not safe for concurrent use. All calls, including [Bridge.Frame],
// must come from the goroutine that owns the stores.
type Bridge struct {
	factory  Factory
	engine   Engine
	state    State
	throttle *Throttle
	clock    func() time.Time

	static        bool
	draggable     bool
	origin        r2.Vec
	dragTarget    float64
	restingTarget float64

	due      bool
	restarts int
}

// Option configures a [Bridge].
type Option func(*Bridge)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) { b.clock = now }
}

// New returns an idle bridge. factory is ignored for static graphs.
func New(factory Factory, cfg config.Config, opts ...Option) *Bridge {
	b := &Bridge{
		factory:    factory,
		throttle:   NewThrottle(cfg.RenderThrottle.Duration),
		clock:      time.Now,
		static:     cfg.Static(),
		draggable:  cfg.Draggable(),
		origin:     r2.Vec{X: cfg.Width / 2, Y: cfg.Height / 2},
		dragTarget: cfg.Sim.AlphaTarget,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current lifecycle state.
func (b *Bridge) State() State { return b.state }

// Engine returns the current engine, or nil before the first restart.
func (b *Bridge) Engine() Engine { return b.engine }

// Restarts returns how many engines the bridge has built.
func (b *Bridge) Restarts() int { return b.restarts }

// Restart discards the current engine and starts a fresh one over bodies and
// springs. An empty body set is valid.
func (b *Bridge) Restart(bodies []*physics.Body, springs []*physics.Spring) {
	if b.engine != nil {
		b.engine.Stop()
		b.engine = nil
	}
	b.due = true
	if b.static {
		physics.Place(bodies, b.origin)
		b.state = Idle
		return
	}
	e := b.factory(bodies, springs)
	e.On(physics.EventTick, b.onTick)
	e.On(physics.EventEnd, b.onEnd)
	e.AlphaTarget(b.restingTarget)
	e.Restart()
	b.engine = e
	b.state = Running
	b.restarts++
}

func (b *Bridge) onTick() {
	if b.throttle.Trigger(b.clock()) {
		b.due = true
	}
}

func (b *Bridge) onEnd() {
	b.state = Idle
	b.throttle.Cancel()
	b.due = true
}

// Frame advances a running engine by one tick and reports whether a
// re-render is due. While idle no engine work is done.
func (b *Bridge) Frame() bool {
	if b.state == Running && b.engine != nil {
		b.engine.Tick()
		if !b.engine.Running() {
			b.state = Idle
		}
	}
	if !b.due && b.throttle.Flush(b.clock()) {
		b.due = true
	}
	due := b.due
	b.due = false
	return due
}

// Request asks for a re-render through the throttle.
func (b *Bridge) Request() {
	if b.throttle.Trigger(b.clock()) {
		b.due = true
	}
}

// Stop halts the engine. Later frames are no-ops until the next restart.
func (b *Bridge) Stop() {
	if b.engine != nil {
		b.engine.Stop()
	}
	b.state = Idle
	b.throttle.Cancel()
}

// DragStart pins n at its current position and wakes the engine.
// It returns false when dragging is disabled.
func (b *Bridge) DragStart(n *store.Node) bool {
	if !b.draggable || n == nil {
		return false
	}
	n.Body.Pin(n.Body.X, n.Body.Y)
	if b.engine != nil {
		b.engine.AlphaTarget(b.dragTarget)
		b.engine.Restart()
		b.state = Running
	}
	return true
}

// DragMove shifts the pin of n by a pointer delta. k is the current zoom
// scale; screen deltas shrink by it in graph coordinates.
func (b *Bridge) DragMove(n *store.Node, dx, dy, k float64) {
	if !b.draggable || n == nil || n.Body.FX == nil || n.Body.FY == nil {
		return
	}
	if k == 0 {
		k = 1
	}
	n.Body.Pin(*n.Body.FX+dx/k, *n.Body.FY+dy/k)
	if b.engine == nil {
		n.Body.X, n.Body.Y = *n.Body.FX, *n.Body.FY
	}
	b.Request()
}

// DragEnd releases n unless the caller pinned it, and lets the engine cool.
func (b *Bridge) DragEnd(n *store.Node) {
	if !b.draggable || n == nil {
		return
	}
	if !n.Pinned {
		n.Body.Unpin()
	}
	if b.engine != nil {
		b.engine.AlphaTarget(b.restingTarget)
	}
	b.due = true
}
