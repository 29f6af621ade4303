package bridge

import (
	"testing"
	"time"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/physics"
	"github.com/matzehuels/forcegraph/pkg/store"
)

// fakeEngine counts calls and fires events on demand.
type fakeEngine struct {
	handlers    map[string][]func()
	running     bool
	alphaTarget float64
	ticks       int
	restarts    int
	stops       int
	endAfter    int
	bodies      []*physics.Body
}

func (e *fakeEngine) On(event string, fn func()) {
	if e.handlers == nil {
		e.handlers = make(map[string][]func())
	}
	e.handlers[event] = append(e.handlers[event], fn)
}

func (e *fakeEngine) fire(event string) {
	for _, fn := range e.handlers[event] {
		fn()
	}
}

func (e *fakeEngine) Stop()                 { e.running = false; e.stops++ }
func (e *fakeEngine) Restart()              { e.running = true; e.restarts++ }
func (e *fakeEngine) AlphaTarget(v float64) { e.alphaTarget = v }
func (e *fakeEngine) Running() bool         { return e.running }

func (e *fakeEngine) Tick() {
	if !e.running {
		return
	}
	e.ticks++
	e.fire(physics.EventTick)
	if e.endAfter > 0 && e.ticks >= e.endAfter {
		e.running = false
		e.fire(physics.EventEnd)
	}
}

type fakeClock struct{ now time.Time }

func newClock() *fakeClock { return &fakeClock{now: time.Unix(1_000_000, 0)} }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) option() Option          { return WithClock(c.Now) }

func newFakeBridge(t *testing.T, cfg config.Config) (*Bridge, *[]*fakeEngine, *fakeClock) {
	t.Helper()
	var engines []*fakeEngine
	factory := func(bodies []*physics.Body, _ []*physics.Spring) Engine {
		e := &fakeEngine{running: true, bodies: bodies}
		engines = append(engines, e)
		return e
	}
	clock := newClock()
	return New(factory, cfg, clock.option()), &engines, clock
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Running.String() != "running" {
		t.Errorf("State strings = %q, %q", Idle, Running)
	}
}

func TestRestartReplacesEngine(t *testing.T) {
	b, engines, _ := newFakeBridge(t, config.Default())
	if b.State() != Idle {
		t.Fatalf("initial state = %v, want idle", b.State())
	}

	bodies := []*physics.Body{physics.NewBody(), physics.NewBody()}
	b.Restart(bodies, nil)
	b.Restart(bodies, nil)

	if got := len(*engines); got != 2 {
		t.Fatalf("engines built = %d, want 2", got)
	}
	first, second := (*engines)[0], (*engines)[1]
	if first.running || first.stops != 1 {
		t.Errorf("first engine running=%v stops=%d, want stopped once", first.running, first.stops)
	}
	if !second.running {
		t.Error("second engine should be running")
	}
	if second.bodies[0] != bodies[0] {
		t.Error("engine should receive the same body pointers")
	}
	if b.State() != Running {
		t.Errorf("state = %v, want running", b.State())
	}
	if b.Restarts() != 2 {
		t.Errorf("Restarts() = %d, want 2", b.Restarts())
	}
}

func TestRestartWithNoBodies(t *testing.T) {
	b, engines, _ := newFakeBridge(t, config.Default())
	b.Restart(nil, nil)
	if len(*engines) != 1 || b.State() != Running {
		t.Errorf("engines=%d state=%v, want 1 running", len(*engines), b.State())
	}
	if !b.Frame() {
		t.Error("first frame after restart should render")
	}
}

func TestFrameThrottlesTicks(t *testing.T) {
	cfg := config.Default()
	cfg.RenderThrottle = config.Duration{Duration: 45 * time.Millisecond}
	b, _, clock := newFakeBridge(t, cfg)
	b.Restart(nil, nil)

	// The restart itself requests a render and the first tick passes the limiter.
	if !b.Frame() {
		t.Fatal("frame 0 should render")
	}

	renders := 0
	for i := 0; i < 10; i++ {
		clock.Advance(10 * time.Millisecond)
		if b.Frame() {
			renders++
		}
	}
	// 100ms of 10ms frames with a 45ms window: one render per window.
	if renders != 2 {
		t.Errorf("renders over 100ms = %d, want 2", renders)
	}
}

func TestFrameFlushesTrailingRequest(t *testing.T) {
	b, engines, clock := newFakeBridge(t, config.Default())
	b.Restart(nil, nil)
	b.Frame()

	// The engine goes quiet right after a held tick.
	e := (*engines)[0]
	clock.Advance(10 * time.Millisecond)
	e.fire(physics.EventTick)
	e.running = false
	if b.Frame() {
		t.Fatal("tick inside the window should not render yet")
	}
	clock.Advance(60 * time.Millisecond)
	if !b.Frame() {
		t.Error("trailing request should render after the window")
	}
	if b.Frame() {
		t.Error("trailing request should render once")
	}
}

func TestEndForcesRenderAndIdles(t *testing.T) {
	b, engines, clock := newFakeBridge(t, config.Default())
	b.Restart(nil, nil)
	(*engines)[0].endAfter = 3
	b.Frame()

	clock.Advance(time.Millisecond)
	b.Frame()
	clock.Advance(time.Millisecond)
	if !b.Frame() {
		t.Error("end event should render even inside the throttle window")
	}
	if b.State() != Idle {
		t.Errorf("state = %v, want idle", b.State())
	}

	ticks := (*engines)[0].ticks
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		if b.Frame() {
			t.Error("idle frames should not render")
		}
	}
	if (*engines)[0].ticks != ticks {
		t.Error("idle frames should not tick the engine")
	}
}

func TestStop(t *testing.T) {
	b, engines, _ := newFakeBridge(t, config.Default())
	b.Restart(nil, nil)
	b.Frame()
	b.Stop()

	if b.State() != Idle || (*engines)[0].running {
		t.Fatal("Stop should halt the engine")
	}
	ticks := (*engines)[0].ticks
	b.Frame()
	if (*engines)[0].ticks != ticks {
		t.Error("frames after Stop should not tick")
	}
}

func TestDragLifecycle(t *testing.T) {
	cfg := config.Default()
	b, engines, _ := newFakeBridge(t, cfg)
	n := &store.Node{ID: "a", Body: physics.NewBodyAt(10, 20)}
	b.Restart([]*physics.Body{n.Body}, nil)
	e := (*engines)[0]
	e.running = false
	b.Stop()

	if !b.DragStart(n) {
		t.Fatal("DragStart refused on a draggable config")
	}
	if n.Body.FX == nil || *n.Body.FX != 10 || *n.Body.FY != 20 {
		t.Fatalf("pin after DragStart = %v,%v, want 10,20", n.Body.FX, n.Body.FY)
	}
	if e.alphaTarget != cfg.Sim.AlphaTarget || !e.running || b.State() != Running {
		t.Errorf("DragStart should reheat: target=%v running=%v state=%v", e.alphaTarget, e.running, b.State())
	}

	b.DragMove(n, 8, -4, 2)
	if *n.Body.FX != 14 || *n.Body.FY != 18 {
		t.Errorf("pin after DragMove = %v,%v, want 14,18", *n.Body.FX, *n.Body.FY)
	}

	b.DragEnd(n)
	if n.Body.Pinned() {
		t.Error("DragEnd should release a node the caller did not pin")
	}
	if e.alphaTarget != 0 {
		t.Errorf("alpha target after DragEnd = %v, want 0", e.alphaTarget)
	}
}

func TestDragEndKeepsCallerPin(t *testing.T) {
	b, _, _ := newFakeBridge(t, config.Default())
	n := &store.Node{ID: "a", Pinned: true, Body: physics.NewBodyAt(0, 0)}
	n.Body.Pin(0, 0)
	b.Restart([]*physics.Body{n.Body}, nil)

	b.DragStart(n)
	b.DragMove(n, 5, 5, 1)
	b.DragEnd(n)

	if !n.Body.Pinned() || *n.Body.FX != 5 || *n.Body.FY != 5 {
		t.Errorf("caller-pinned node should stay pinned at the drop point, got %v,%v", n.Body.FX, n.Body.FY)
	}
}

func TestDragDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*config.Config)
	}{
		{"frozen", func(c *config.Config) { c.FreezeAllDragEvents = true }},
		{"static", func(c *config.Config) { c.StaticGraph = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.cfg(&cfg)
			b, _, _ := newFakeBridge(t, cfg)
			n := &store.Node{ID: "a", Body: physics.NewBodyAt(1, 1)}
			if b.DragStart(n) {
				t.Error("DragStart should be refused")
			}
			b.DragMove(n, 5, 5, 1)
			if n.Body.Pinned() || n.Body.X != 1 {
				t.Error("drag should not touch the body")
			}
		})
	}
}

func TestStaticGraph(t *testing.T) {
	cfg := config.Default()
	cfg.StaticGraphWithDragAndDrop = true
	b, engines, _ := newFakeBridge(t, cfg)

	placed := physics.NewBodyAt(5, 5)
	unplaced := physics.NewBody()
	b.Restart([]*physics.Body{placed, unplaced}, nil)

	if len(*engines) != 0 {
		t.Fatalf("static bridge built %d engines, want 0", len(*engines))
	}
	if !unplaced.Placed() || placed.X != 5 {
		t.Error("static restart should seed unplaced bodies only")
	}
	if !b.Frame() {
		t.Error("static restart should render once")
	}

	n := &store.Node{ID: "a", Body: placed}
	b.DragStart(n)
	b.DragMove(n, 3, 4, 1)
	if placed.X != 8 || placed.Y != 9 {
		t.Errorf("static drag moved body to %v,%v, want 8,9", placed.X, placed.Y)
	}
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(50 * time.Millisecond)
	now := time.Unix(0, 0)

	if !th.Trigger(now) {
		t.Fatal("first trigger should pass")
	}
	if th.Trigger(now.Add(10 * time.Millisecond)) {
		t.Fatal("trigger inside the window should be held")
	}
	if !th.Pending() {
		t.Fatal("held trigger should be pending")
	}
	if th.Flush(now.Add(20 * time.Millisecond)) {
		t.Error("flush inside the window should wait")
	}
	if !th.Flush(now.Add(50 * time.Millisecond)) {
		t.Error("flush after the window should pass")
	}
	if th.Pending() || th.Flush(now.Add(time.Second)) {
		t.Error("flush should serve the trailing request once")
	}
}

func TestPinnedBodyHoldsWhileNeighboursMove(t *testing.T) {
	cfg := config.Default()
	b := New(PhysicsFactory(cfg), cfg)

	a := &store.Node{ID: "a", Body: physics.NewBodyAt(400, 350)}
	c := &store.Node{ID: "c", Body: physics.NewBodyAt(420, 350)}
	spring := &physics.Spring{Source: a.Body, Target: c.Body}
	b.Restart([]*physics.Body{a.Body, c.Body}, []*physics.Spring{spring})

	b.DragStart(a)
	start := c.Body.X
	for i := 0; i < 50; i++ {
		b.Frame()
	}
	if a.Body.X != 400 || a.Body.Y != 350 {
		t.Errorf("pinned body moved to %v,%v", a.Body.X, a.Body.Y)
	}
	if c.Body.X == start {
		t.Error("free neighbour should move")
	}
}
