package physics

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// Simulation events.
const (
	EventTick = "tick"
	EventEnd  = "end"
)

// Default simulation parameters.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
)

// DefaultAlphaDecay cools alpha from 1 to alphaMin in about 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// Force is one component of the simulation.
type Force interface {
	// Initialize is called when the force is registered and whenever the
	// body set changes. rng is the simulation's random source.
	Initialize(bodies []*Body, rng *rand.Rand)
	// Apply adjusts body velocities for the current alpha.
	Apply(alpha float64)
}

type namedForce struct {
	name  string
	force Force
}

// Simulation advances a set of bodies under registered forces.
//
// A Simulation is not safe for concurrent use. It is meant to be driven from
// a single loop that also reads the bodies.
type Simulation struct {
	bodies []*Body
	forces []namedForce
	rng    *rand.Rand
	origin r2.Vec

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	running  bool
	ticks    int
	handlers map[string][]func()
}

// Option configures a [Simulation].
type Option func(*Simulation)

// WithSeed seeds the random source used for jiggle.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)) }
}

// WithOrigin sets the point unplaced bodies are seeded around.
func WithOrigin(x, y float64) Option {
	return func(s *Simulation) { s.origin = r2.Vec{X: x, Y: y} }
}

// WithAlphaDecay overrides [DefaultAlphaDecay].
func WithAlphaDecay(d float64) Option {
	return func(s *Simulation) { s.alphaDecay = d }
}

// WithVelocityDecay overrides [DefaultVelocityDecay].
func WithVelocityDecay(d float64) Option {
	return func(s *Simulation) { s.velocityDecay = d }
}

// New creates a running simulation over bodies. Unplaced bodies are seeded
// immediately. The bodies slice is retained; its elements are mutated in place.
func New(bodies []*Body, opts ...Option) *Simulation {
	s := &Simulation{
		bodies:        bodies,
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
		running:       true,
		handlers:      make(map[string][]func()),
	}
	WithSeed(1)(s)
	for _, opt := range opts {
		opt(s)
	}
	Place(s.bodies, s.origin)
	return s
}

// Bodies returns the simulated bodies.
func (s *Simulation) Bodies() []*Body { return s.bodies }

// Force registers f under name, replacing any force with the same name while
// keeping its position in the application order. A nil f removes the force.
func (s *Simulation) Force(name string, f Force) *Simulation {
	for i, nf := range s.forces {
		if nf.name != name {
			continue
		}
		if f == nil {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return s
		}
		s.forces[i].force = f
		f.Initialize(s.bodies, s.rng)
		return s
	}
	if f != nil {
		s.forces = append(s.forces, namedForce{name, f})
		f.Initialize(s.bodies, s.rng)
	}
	return s
}

// Lookup returns the force registered under name.
func (s *Simulation) Lookup(name string) (Force, bool) {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force, true
		}
	}
	return nil, false
}

// On registers fn for event. Handlers run synchronously inside [Simulation.Tick].
func (s *Simulation) On(event string, fn func()) {
	s.handlers[event] = append(s.handlers[event], fn)
}

func (s *Simulation) emit(event string) {
	for _, fn := range s.handlers[event] {
		fn()
	}
}

// Alpha returns the current alpha.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets alpha, typically to 1 to reheat a cooled layout.
func (s *Simulation) SetAlpha(a float64) { s.alpha = a }

// AlphaTarget sets the value alpha decays toward.
func (s *Simulation) AlphaTarget(v float64) { s.alphaTarget = v }

// Running reports whether ticks advance the layout.
func (s *Simulation) Running() bool { return s.running }

// Restart resumes ticking without resetting alpha.
func (s *Simulation) Restart() { s.running = true }

// Stop halts the simulation. Bodies keep their current positions.
func (s *Simulation) Stop() { s.running = false }

// Ticks returns the number of ticks applied since creation.
func (s *Simulation) Ticks() int { return s.ticks }

// Tick advances one step if the simulation is running and emits [EventTick].
// When alpha drops below alphaMin the simulation stops and emits [EventEnd].
func (s *Simulation) Tick() {
	if !s.running {
		return
	}
	s.Step()
	s.emit(EventTick)
	if s.alpha < s.alphaMin {
		s.running = false
		s.emit(EventEnd)
	}
}

// Step applies one integration step without emitting events and regardless
// of the running state.
func (s *Simulation) Step() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	for _, nf := range s.forces {
		nf.force.Apply(s.alpha)
	}
	keep := 1 - s.velocityDecay
	for _, b := range s.bodies {
		if b.FX == nil {
			b.VX *= keep
			b.X += b.VX
		} else {
			b.X = *b.FX
			b.VX = 0
		}
		if b.FY == nil {
			b.VY *= keep
			b.Y += b.VY
		} else {
			b.Y = *b.FY
			b.VY = 0
		}
	}
	s.ticks++
}

// Settle ticks until the simulation stops or maxTicks steps have run and
// returns the number of ticks taken. maxTicks <= 0 means no limit.
func (s *Simulation) Settle(maxTicks int) int {
	n := 0
	for s.running && (maxTicks <= 0 || n < maxTicks) {
		s.Tick()
		n++
	}
	return n
}

func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}
