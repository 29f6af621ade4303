// Package render turns a traversal result into drawable output.
//
// # Overview
//
// A render pass produces a [Frame]: the viewport, the zoom scale, and one
// [Element] per reachable node or link, in traversal order. Each element
// carries a prop bag ([NodeProps] or [LinkProps]) with every value a drawing
// surface needs, already resolved from the entity's style and scaled for the
// current zoom.
//
//	res := traverse.Walk(nodes.Root(), idx)
//	f := render.Build(res, render.FrameOptions{Width: 800, Height: 700, ViewBox: vb, Scale: 1})
//	svg := render.RenderSVG(f)
//
// # Zoom Scaling
//
// With zoom scale k, node sizes, font sizes and stroke widths are multiplied
// by 1/k so elements keep their on-screen size while the view box shrinks.
// Link endpoints attached to circle nodes are pulled back to the circle's
// boundary.
//
// # Sinks
//
//   - [RenderSVG]: standalone SVG document
//   - [RenderJSON]: the frame as JSON, for browsers and other front ends
//   - [RenderASCII]: character canvas for terminals
//   - [dot]: Graphviz DOT with pinned positions, and SVG through Graphviz
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [dot]: github.com/matzehuels/forcegraph/pkg/render/dot
package render
