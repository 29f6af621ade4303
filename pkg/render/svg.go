package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/forcegraph/pkg/config"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	labels     bool
	class      string
}

// WithBackground fills the view box with color before drawing.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithoutLabels suppresses node and link labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithClass sets the class attribute of the root element.
func WithClass(c string) SVGOption { return func(r *svgRenderer) { r.class = c } }

// RenderSVG draws f as a standalone SVG document. Elements are drawn in frame
// order, so later elements paint over earlier ones.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%s" height="%s"`,
		f.ViewBox, num(f.Width), num(f.Height))
	if r.class != "" {
		fmt.Fprintf(&buf, ` class="%s"`, escapeXML(r.class))
	}
	buf.WriteString(">\n")

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(f.ViewBox.X), num(f.ViewBox.Y), num(f.ViewBox.Width), num(f.ViewBox.Height), escapeXML(r.background))
	}

	for _, el := range f.Elements {
		switch {
		case el.Link != nil:
			r.renderLink(&buf, *el.Link)
		case el.Node != nil:
			r.renderNode(&buf, *el.Node)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderLink(buf *bytes.Buffer, l LinkProps) {
	fmt.Fprintf(buf, `  <path class="link" id="link-%s-%s" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-opacity="%s"`,
		escapeXML(l.Source), escapeXML(l.Target), l.D, escapeXML(l.Stroke), num(l.StrokeWidth), num(l.Opacity))
	if l.StrokeDasharray > 0 {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, num(l.StrokeDasharray))
	}
	if l.StrokeLinecap != "" {
		fmt.Fprintf(buf, ` stroke-linecap="%s"`, escapeXML(l.StrokeLinecap))
	}
	buf.WriteString("/>\n")

	if !r.labels || l.Label == "" {
		return
	}
	mx, my := (l.X1+l.X2)/2, (l.Y1+l.Y2)/2
	fmt.Fprintf(buf, `  <text class="link-label" x="%s" y="%s" font-size="%s" fill="%s" text-anchor="middle">%s</text>`+"\n",
		num(mx), num(my), num(l.FontSize), escapeXML(l.FontColor), escapeXML(l.Label))
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n NodeProps) {
	fmt.Fprintf(buf, `  <g class="node" id="node-%s" opacity="%s">`+"\n", escapeXML(n.ID), num(n.Opacity))
	stroke := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%s"`, escapeXML(n.Fill), escapeXML(n.Stroke), num(n.StrokeWidth))

	switch n.Symbol {
	case config.SymbolSquare:
		side := math.Sqrt(n.Size)
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" %s/>`+"\n",
			num(n.CX-side/2), num(n.CY-side/2), num(side), num(side), stroke)
	case config.SymbolDiamond:
		fmt.Fprintf(buf, `    <polygon points="%s" %s/>`+"\n", diamondPoints(n.CX, n.CY, n.Size), stroke)
	default:
		fmt.Fprintf(buf, `    <circle cx="%s" cy="%s" r="%s" %s/>`+"\n", num(n.CX), num(n.CY), num(n.Radius), stroke)
	}

	if r.labels && n.Label != "" {
		dx, dy, anchor, baseline := labelPlacement(n.LabelPosition, n.LabelOffset)
		fmt.Fprintf(buf, `    <text x="%s" y="%s" dx="%s" dy="%s" text-anchor="%s" dominant-baseline="%s" font-size="%s" font-weight="%s" fill="%s">%s</text>`+"\n",
			num(n.CX), num(n.CY), num(dx), num(dy), anchor, baseline,
			num(n.FontSize), escapeXML(n.FontWeight), escapeXML(n.FontColor), escapeXML(n.Label))
	}
	buf.WriteString("  </g>\n")
}

// labelPlacement positions a label relative to the node centre.
func labelPlacement(position string, offset float64) (dx, dy float64, anchor, baseline string) {
	switch position {
	case "right":
		return offset, 0, "start", "middle"
	case "left":
		return -offset, 0, "end", "middle"
	case "top":
		return 0, -offset, "middle", "baseline"
	case "center":
		return 0, 0, "middle", "middle"
	default:
		return 0, offset, "middle", "hanging"
	}
}

var tan30 = math.Sqrt(1.0 / 3)

// diamondPoints returns a diamond of the given area, as d3's symbolDiamond.
func diamondPoints(cx, cy, size float64) string {
	y := math.Sqrt(size / (tan30 * 2))
	x := y * tan30
	return fmt.Sprintf("%s,%s %s,%s %s,%s %s,%s",
		num(cx), num(cy-y), num(cx+x), num(cy), num(cx), num(cy+y), num(cx-x), num(cy))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
