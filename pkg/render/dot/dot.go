package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// Graphviz measures node sizes in inches and positions in points.
const pointsPerInch = 72

// Options configures DOT generation.
type Options struct {
	// Labels adds each node's label next to it.
	Labels bool
	// Directed draws links with arrow heads.
	Directed bool
}

// ToDOT converts a frame to Graphviz DOT source with pinned node positions.
// Nodes are written before links; both keep frame order.
func ToDOT(f render.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fixedsize=true, style=filled, label=\"\"];\n")
	if !opts.Directed {
		buf.WriteString("  edge [dir=none];\n")
	}
	buf.WriteString("\n")

	for _, n := range f.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, l := range f.Links() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.Source, l.Target, strings.Join(linkAttrs(l), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n render.NodeProps, opts Options) []string {
	diameter := 2 * n.Radius / pointsPerInch
	attrs := []string{
		fmt.Sprintf("pos=%q", fmt.Sprintf("%s,%s!", num(n.CX), num(flipY(n.CY)))),
		"shape=" + shape(n.Symbol),
		"width=" + num(diameter),
		"height=" + num(diameter),
		fmt.Sprintf("fillcolor=%q", n.Fill),
		fmt.Sprintf("color=%q", strokeColor(n.Stroke)),
		"penwidth=" + num(n.StrokeWidth),
	}
	if opts.Labels && n.Label != "" {
		attrs = append(attrs,
			fmt.Sprintf("xlabel=%q", n.Label),
			"fontsize="+num(n.FontSize),
			fmt.Sprintf("fontcolor=%q", n.FontColor))
	}
	return attrs
}

func linkAttrs(l render.LinkProps) []string {
	attrs := []string{
		fmt.Sprintf("color=%q", l.Stroke),
		"penwidth=" + num(l.StrokeWidth),
	}
	if l.StrokeDasharray > 0 {
		attrs = append(attrs, "style=dashed")
	}
	if l.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", l.Label))
	}
	return attrs
}

func shape(symbol string) string {
	switch symbol {
	case config.SymbolSquare:
		return "box"
	case config.SymbolDiamond:
		return "diamond"
	default:
		return "circle"
	}
}

// strokeColor maps the "none" keyword to Graphviz's transparent color.
func strokeColor(c string) string {
	if c == "" || c == "none" {
		return "transparent"
	}
	return c
}

// flipY converts a screen y to Graphviz's upward axis without producing -0.
func flipY(y float64) float64 { return 0 - y }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderSVG renders DOT source to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
