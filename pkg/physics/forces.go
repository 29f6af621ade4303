package physics

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// =============================================================================
// ManyBody
// =============================================================================

// ManyBody applies a pairwise charge between all bodies. A negative Strength
// repels. Distant groups are approximated with a Barnes-Hut quadtree.
type ManyBody struct {
	Strength float64
	// Theta is the Barnes-Hut accuracy parameter. Zero computes every pair.
	Theta float64
	// DistanceMin bounds the force between very close bodies.
	DistanceMin float64

	bodies    []*Body
	particles []barneshut.Particle2
	rng       *rand.Rand
}

// NewManyBody returns a charge force with d3-compatible defaults.
func NewManyBody(strength float64) *ManyBody {
	return &ManyBody{Strength: strength, Theta: 0.9, DistanceMin: 1}
}

func (f *ManyBody) Initialize(bodies []*Body, rng *rand.Rand) {
	f.bodies = bodies
	f.rng = rng
	f.particles = make([]barneshut.Particle2, len(bodies))
	for i, b := range bodies {
		f.particles[i] = b
	}
}

func (f *ManyBody) Apply(alpha float64) {
	if len(f.bodies) < 2 {
		return
	}
	theta := f.Theta
	plane, err := barneshut.NewPlane(f.particles)
	if err != nil {
		// Coordinates too close to split: fall back to exact pairs.
		plane = &barneshut.Plane{Particles: f.particles}
		theta = 0
	}
	min2 := f.DistanceMin * f.DistanceMin
	charge := func(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		if p1 == p2 {
			return r2.Vec{}
		}
		if v.X == 0 {
			v.X = jiggle(f.rng)
		}
		if v.Y == 0 {
			v.Y = jiggle(f.rng)
		}
		l := v.X*v.X + v.Y*v.Y
		if l < min2 {
			l = math.Sqrt(min2 * l)
		}
		return r2.Scale(f.Strength*m2*alpha/l, v)
	}
	for _, b := range f.bodies {
		dv := plane.ForceOn(b, theta, charge)
		b.VX += dv.X
		b.VY += dv.Y
	}
}

// =============================================================================
// Link
// =============================================================================

// LinkForce pulls the endpoints of each spring toward Distance apart.
//
// The correction is split between the endpoints by degree: the end with more
// springs moves less, which keeps hubs stable.
type LinkForce struct {
	Distance   float64
	Strength   float64
	Iterations int

	springs []*Spring
	bias    []float64
	rng     *rand.Rand
}

// NewLink returns a spring force over springs.
func NewLink(springs []*Spring, distance, strength float64) *LinkForce {
	return &LinkForce{springs: springs, Distance: distance, Strength: strength, Iterations: 1}
}

func (f *LinkForce) Initialize(_ []*Body, rng *rand.Rand) {
	f.rng = rng
	count := make(map[*Body]int, len(f.springs)*2)
	for _, s := range f.springs {
		count[s.Source]++
		count[s.Target]++
	}
	f.bias = make([]float64, len(f.springs))
	for i, s := range f.springs {
		f.bias[i] = float64(count[s.Source]) / float64(count[s.Source]+count[s.Target])
	}
}

func (f *LinkForce) Apply(alpha float64) {
	for k := 0; k < f.Iterations; k++ {
		for i, s := range f.springs {
			src, tgt := s.Source, s.Target
			x := tgt.X + tgt.VX - src.X - src.VX
			if x == 0 {
				x = jiggle(f.rng)
			}
			y := tgt.Y + tgt.VY - src.Y - src.VY
			if y == 0 {
				y = jiggle(f.rng)
			}
			l := math.Sqrt(x*x + y*y)
			l = (l - f.Distance) / l * alpha * f.Strength
			x *= l
			y *= l
			b := f.bias[i]
			tgt.VX -= x * b
			tgt.VY -= y * b
			src.VX += x * (1 - b)
			src.VY += y * (1 - b)
		}
	}
}

// =============================================================================
// Collide
// =============================================================================

// Collide treats bodies as circles of Radius and pushes overlapping pairs
// apart.
type Collide struct {
	Radius   float64
	Strength float64

	bodies []*Body
	rng    *rand.Rand
}

// NewCollide returns a collision force for circles of radius r.
func NewCollide(r float64) *Collide {
	return &Collide{Radius: r, Strength: 1}
}

func (f *Collide) Initialize(bodies []*Body, rng *rand.Rand) {
	f.bodies = bodies
	f.rng = rng
}

// Apply checks every pair. Scenes are small enough that a quadtree would not
// pay for itself here.
func (f *Collide) Apply(float64) {
	if f.Radius <= 0 {
		return
	}
	sep := 2 * f.Radius
	for i, a := range f.bodies {
		ax, ay := a.X+a.VX, a.Y+a.VY
		for _, b := range f.bodies[i+1:] {
			x := ax - b.X - b.VX
			y := ay - b.Y - b.VY
			l := x*x + y*y
			if l >= sep*sep {
				continue
			}
			if x == 0 {
				x = jiggle(f.rng)
				l += x * x
			}
			if y == 0 {
				y = jiggle(f.rng)
				l += y * y
			}
			d := math.Sqrt(l)
			d = (sep - d) / d * f.Strength
			x *= d
			y *= d
			a.VX += x / 2
			a.VY += y / 2
			b.VX -= x / 2
			b.VY -= y / 2
		}
	}
}

// =============================================================================
// Center and Position
// =============================================================================

// Center translates all bodies so that their mean position is (X, Y).
// It does not touch velocities.
type Center struct {
	X, Y     float64
	Strength float64

	bodies []*Body
}

// NewCenter returns a centering force.
func NewCenter(x, y float64) *Center { return &Center{X: x, Y: y, Strength: 1} }

func (f *Center) Initialize(bodies []*Body, _ *rand.Rand) { f.bodies = bodies }

func (f *Center) Apply(float64) {
	if len(f.bodies) == 0 {
		return
	}
	var sx, sy float64
	for _, b := range f.bodies {
		sx += b.X
		sy += b.Y
	}
	n := float64(len(f.bodies))
	dx := (sx/n - f.X) * f.Strength
	dy := (sy/n - f.Y) * f.Strength
	for _, b := range f.bodies {
		b.X -= dx
		b.Y -= dy
	}
}

// PositionX pulls each body's x toward X.
type PositionX struct {
	X        float64
	Strength float64

	bodies []*Body
}

// NewPositionX returns an x-positioning force.
func NewPositionX(x, strength float64) *PositionX { return &PositionX{X: x, Strength: strength} }

func (f *PositionX) Initialize(bodies []*Body, _ *rand.Rand) { f.bodies = bodies }

func (f *PositionX) Apply(alpha float64) {
	for _, b := range f.bodies {
		b.VX += (f.X - b.X) * f.Strength * alpha
	}
}

// PositionY pulls each body's y toward Y.
type PositionY struct {
	Y        float64
	Strength float64

	bodies []*Body
}

// NewPositionY returns a y-positioning force.
func NewPositionY(y, strength float64) *PositionY { return &PositionY{Y: y, Strength: strength} }

func (f *PositionY) Initialize(bodies []*Body, _ *rand.Rand) { f.bodies = bodies }

func (f *PositionY) Apply(alpha float64) {
	for _, b := range f.bodies {
		b.VY += (f.Y - b.Y) * f.Strength * alpha
	}
}
