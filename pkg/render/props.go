package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/store"
)

// Base label offset added to the scaled font size, in graph units.
const labelOffsetBase = 1.5

// NodeProps is the prop bag of one rendered node.
type NodeProps struct {
	ID            string  `json:"id"`
	CX            float64 `json:"cx"`
	CY            float64 `json:"cy"`
	Size          float64 `json:"size"`
	Radius        float64 `json:"radius"`
	Symbol        string  `json:"symbol"`
	Fill          string  `json:"fill"`
	Opacity       float64 `json:"opacity"`
	Stroke        string  `json:"stroke"`
	StrokeWidth   float64 `json:"stroke_width"`
	Label         string  `json:"label,omitempty"`
	LabelPosition string  `json:"label_position,omitempty"`
	LabelOffset   float64 `json:"label_offset,omitempty"`
	FontSize      float64 `json:"font_size,omitempty"`
	FontColor     string  `json:"font_color,omitempty"`
	FontWeight    string  `json:"font_weight,omitempty"`
	Pinned        bool    `json:"pinned,omitempty"`
	Focused       bool    `json:"focused,omitempty"`
}

// LinkProps is the prop bag of one rendered link.
type LinkProps struct {
	Source          string  `json:"source"`
	Target          string  `json:"target"`
	D               string  `json:"d"`
	X1              float64 `json:"x1"`
	Y1              float64 `json:"y1"`
	X2              float64 `json:"x2"`
	Y2              float64 `json:"y2"`
	Stroke          string  `json:"stroke"`
	StrokeWidth     float64 `json:"stroke_width"`
	StrokeDasharray float64 `json:"stroke_dasharray,omitempty"`
	StrokeLinecap   string  `json:"stroke_linecap,omitempty"`
	Opacity         float64 `json:"opacity"`
	Label           string  `json:"label,omitempty"`
	FontSize        float64 `json:"font_size,omitempty"`
	FontColor       string  `json:"font_color,omitempty"`
}

// NodePropsFor builds the props of n at zoom scale k. Sizes and fonts shrink
// as k grows so nodes keep their on-screen size.
func NodePropsFor(n *store.Node, k float64) NodeProps {
	t := inverse(k)
	s := n.Style
	p := NodeProps{
		ID:          n.ID,
		CX:          n.Body.X,
		CY:          n.Body.Y,
		Size:        s.Size * t,
		Radius:      radius(s.Size * t),
		Symbol:      s.SymbolType,
		Fill:        s.Color,
		Opacity:     s.Opacity,
		Stroke:      s.StrokeColor,
		StrokeWidth: s.StrokeWidth * t,
		Pinned:      n.Body.Pinned(),
	}
	if s.RenderLabel {
		p.Label = n.Label()
		p.LabelPosition = s.LabelPosition
		p.LabelOffset = s.FontSize*t + s.Size/100 + labelOffsetBase
		p.FontSize = s.FontSize * t
		p.FontColor = s.FontColor
		p.FontWeight = s.FontWeight
	}
	return p
}

// LinkPropsFor builds the props of l at zoom scale k.
//
// Endpoints attached to circle nodes are pulled back to the circle boundary
// so the line starts and ends outside the symbol.
func LinkPropsFor(l *store.Link, k float64) LinkProps {
	t := inverse(k)
	s := l.Style

	width := s.StrokeWidth * t
	if s.SemanticStrokeWidth {
		v := s.Value
		if v == 0 {
			v = 1
		}
		width += v * width / 10
	}

	x1, y1, x2, y2 := endpoints(l.Source, l.Target, t)
	p := LinkProps{
		Source:          l.Key.Source,
		Target:          l.Key.Target,
		D:               pathDefinition(x1, y1, x2, y2),
		X1:              x1,
		Y1:              y1,
		X2:              x2,
		Y2:              y2,
		Stroke:          s.Color,
		StrokeWidth:     width,
		StrokeDasharray: s.StrokeDasharray,
		StrokeLinecap:   s.StrokeLinecap,
		Opacity:         s.Opacity,
	}
	if s.RenderLabel && s.Label != "" {
		p.Label = s.Label
		p.FontSize = s.FontSize * t
		p.FontColor = s.FontColor
	}
	return p
}

// endpoints pulls each end back by the node's radius at size scale t, the
// same radius [NodePropsFor] draws.
func endpoints(src, tgt *store.Node, t float64) (x1, y1, x2, y2 float64) {
	x1, y1 = src.Body.X, src.Body.Y
	x2, y2 = tgt.Body.X, tgt.Body.Y
	dx, dy := x2-x1, y2-y1
	d := math.Hypot(dx, dy)
	if d == 0 {
		return x1, y1, x2, y2
	}
	ux, uy := dx/d, dy/d
	if src.Style.SymbolType == config.SymbolCircle {
		r := radius(src.Style.Size * t)
		x1 += r * ux
		y1 += r * uy
	}
	if tgt.Style.SymbolType == config.SymbolCircle {
		r := radius(tgt.Style.Size * t)
		x2 -= r * ux
		y2 -= r * uy
	}
	return x1, y1, x2, y2
}

// pathDefinition is a straight line written as a zero-radius arc.
func pathDefinition(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf("M%s,%sA0,0 0 0,1 %s,%s", num(x1), num(y1), num(x2), num(y2))
}

// radius of a circle whose area is size.
func radius(size float64) float64 {
	if size <= 0 {
		return 0
	}
	return math.Sqrt(size / math.Pi)
}

func inverse(k float64) float64 {
	if k <= 0 {
		return 1
	}
	return 1 / k
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
