package scene

import (
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/render"
)

// Transform is a pan and zoom state: screen = graph*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity returns the untransformed view.
func Identity() Transform { return Transform{K: 1} }

func (t Transform) scale() float64 {
	if t.K <= 0 {
		return 1
	}
	return t.K
}

// ViewBox returns the graph region visible in a w x h viewport.
func (t Transform) ViewBox(w, h float64) render.ViewBox {
	k := t.scale()
	return render.ViewBox{X: -t.X / k, Y: -t.Y / k, Width: w / k, Height: h / k}
}

// Apply maps graph coordinates to screen coordinates.
func (t Transform) Apply(x, y float64) (float64, float64) {
	k := t.scale()
	return x*k + t.X, y*k + t.Y
}

// Invert maps screen coordinates to graph coordinates.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	k := t.scale()
	return (sx - t.X) / k, (sy - t.Y) / k
}

// Clamp limits K to [minK, maxK].
func (t Transform) Clamp(minK, maxK float64) Transform {
	t.K = min(max(t.scale(), minK), maxK)
	return t
}

// ScaleAround multiplies K by factor, keeping the screen point (px, py) fixed.
// The new scale is clamped to [minK, maxK].
func (t Transform) ScaleAround(factor, px, py, minK, maxK float64) Transform {
	k0 := t.scale()
	k1 := min(max(k0*factor, minK), maxK)
	gx, gy := t.Invert(px, py)
	return Transform{X: px - gx*k1, Y: py - gy*k1, K: k1}
}

// FocusOn returns the transform that centres graph point (x, y) in a w x h
// viewport at scale k.
func FocusOn(x, y, w, h, k float64) Transform {
	return Transform{X: w/2 - k*x, Y: h/2 - k*y, K: k}
}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}
