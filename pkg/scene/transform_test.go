package scene

import (
	"math"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/render"
)

func TestTransformViewBox(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		want render.ViewBox
	}{
		{"identity", Identity(), render.ViewBox{X: 0, Y: 0, Width: 800, Height: 700}},
		{"translated", Transform{X: 100, Y: -50, K: 1}, render.ViewBox{X: -100, Y: 50, Width: 800, Height: 700}},
		{"zoomed", Transform{X: 100, Y: 200, K: 2}, render.ViewBox{X: -50, Y: -100, Width: 400, Height: 350}},
		{"zero scale", Transform{}, render.ViewBox{X: 0, Y: 0, Width: 800, Height: 700}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.ViewBox(800, 700); got != tt.want {
				t.Errorf("ViewBox() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransformApplyInvert(t *testing.T) {
	tr := Transform{X: 30, Y: -20, K: 1.5}
	for _, p := range [][2]float64{{0, 0}, {10, 20}, {-300, 125.5}} {
		sx, sy := tr.Apply(p[0], p[1])
		x, y := tr.Invert(sx, sy)
		if math.Abs(x-p[0]) > 1e-9 || math.Abs(y-p[1]) > 1e-9 {
			t.Errorf("Invert(Apply(%v)) = %v,%v", p, x, y)
		}
	}
}

func TestScaleAroundKeepsAnchor(t *testing.T) {
	tr := Transform{X: 15, Y: 40, K: 1.25}
	gx, gy := tr.Invert(400, 350)

	next := tr.ScaleAround(3, 400, 350, 0.125, 8)
	sx, sy := next.Apply(gx, gy)
	if math.Abs(sx-400) > 1e-9 || math.Abs(sy-350) > 1e-9 {
		t.Errorf("anchor moved to %v,%v", sx, sy)
	}
	if next.K != 3.75 {
		t.Errorf("K = %v, want 3.75", next.K)
	}

	if got := tr.ScaleAround(0.001, 0, 0, 0.125, 8).K; got != 0.125 {
		t.Errorf("K = %v, want clamped to 0.125", got)
	}
}

func TestFocusOn(t *testing.T) {
	tr := FocusOn(100, 50, 800, 700, 2)
	sx, sy := tr.Apply(100, 50)
	if sx != 400 || sy != 350 {
		t.Errorf("focused point at %v,%v, want viewport centre", sx, sy)
	}
	if tr.String() != "translate(200,250) scale(2)" {
		t.Errorf("String() = %q", tr.String())
	}
}
