// Package dot renders frames through Graphviz.
//
// # Overview
//
// [ToDOT] writes a frame as DOT source where every node carries its simulated
// position as a pinned pos attribute. Graphviz's neato engine with
// inputscale=72 then keeps the layout exactly as computed and only draws it,
// so the output matches the other sinks node for node.
//
//	src := dot.ToDOT(frame, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// For PDF or PNG output:
//
//	pdf, err := dot.RenderPDF(ctx, src)
//	png, err := dot.RenderPNG(ctx, src, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package dot
