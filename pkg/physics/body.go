package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is the mutable position datum of one node.
type Body struct {
	X, Y   float64
	VX, VY float64
	// FX and FY pin the body. A nil pin leaves that axis free.
	FX, FY *float64

	placed         bool
	knownX, knownY bool // axis given explicitly before placement
}

// NewBody returns an unplaced body. The simulation seeds its position.
func NewBody() *Body { return &Body{} }

// NewBodyAt returns a body placed at (x, y).
func NewBodyAt(x, y float64) *Body { return &Body{X: x, Y: y, placed: true} }

// NewBodyNear returns a body with whichever initial coordinates are non-nil.
// With both given the body is placed; otherwise [Place] seeds the missing axis.
func NewBodyNear(x, y *float64) *Body {
	b := &Body{}
	if x != nil {
		b.X, b.knownX = *x, true
	}
	if y != nil {
		b.Y, b.knownY = *y, true
	}
	b.placed = b.knownX && b.knownY
	return b
}

// Place moves the body to (x, y) and marks it placed.
func (b *Body) Place(x, y float64) {
	b.X, b.Y = x, y
	b.placed = true
}

// Placed reports whether the body has a position.
func (b *Body) Placed() bool { return b.placed }

// Pin fixes the body at (x, y).
func (b *Body) Pin(x, y float64) {
	b.FX, b.FY = &x, &y
}

// Unpin releases both axes.
func (b *Body) Unpin() { b.FX, b.FY = nil, nil }

// Pinned reports whether either axis is pinned.
func (b *Body) Pinned() bool { return b.FX != nil || b.FY != nil }

// Coord2 implements barneshut.Particle2.
func (b *Body) Coord2() r2.Vec { return r2.Vec{X: b.X, Y: b.Y} }

// Mass implements barneshut.Particle2. All bodies weigh the same.
func (b *Body) Mass() float64 { return 1 }

// Spring is the force datum of one link.
type Spring struct {
	Source, Target *Body
}

// Seeding parameters for unplaced bodies.
const (
	initialRadius = 10
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Place seeds every unplaced body on a phyllotaxis spiral around origin and
// snaps pinned bodies to their pins. An axis given to [NewBodyNear] is kept.
// Placed bodies are left alone.
func Place(bodies []*Body, origin r2.Vec) {
	for i, b := range bodies {
		if b.FX != nil {
			b.X = *b.FX
		}
		if b.FY != nil {
			b.Y = *b.FY
		}
		if b.placed {
			continue
		}
		seedX, seedY := b.FX == nil && !b.knownX, b.FY == nil && !b.knownY
		if seedX || seedY {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			if seedX {
				b.X = origin.X + radius*math.Cos(angle)
			}
			if seedY {
				b.Y = origin.Y + radius*math.Sin(angle)
			}
		}
		b.VX, b.VY = 0, 0
		b.placed = true
	}
}
