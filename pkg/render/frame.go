package render

import (
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/traverse"
)

// ViewBox is the visible region of the graph in graph coordinates.
type ViewBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// String formats the box as an SVG viewBox attribute value.
func (v ViewBox) String() string {
	return fmt.Sprintf("%s %s %s %s", num(v.X), num(v.Y), num(v.Width), num(v.Height))
}

// Contains reports whether (x, y) lies inside the box.
func (v ViewBox) Contains(x, y float64) bool {
	return x >= v.X && x <= v.X+v.Width && y >= v.Y && y <= v.Y+v.Height
}

// Element is one entry of a frame. Exactly one of Node and Link is set.
type Element struct {
	Kind string     `json:"kind"`
	Node *NodeProps `json:"node,omitempty"`
	Link *LinkProps `json:"link,omitempty"`
}

// Frame is a finished render pass: the props of every reachable element in
// traversal order.
type Frame struct {
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	ViewBox  ViewBox   `json:"view_box"`
	Scale    float64   `json:"scale"`
	Focused  string    `json:"focused,omitempty"`
	Ticks    int       `json:"ticks,omitempty"`
	Elements []Element `json:"elements"`
}

// FrameOptions describe the viewport a frame is built for.
type FrameOptions struct {
	Width, Height float64
	ViewBox       ViewBox
	Scale         float64
	Focused       string
}

// Build turns a traversal result into a frame.
func Build(res *traverse.Result, opts FrameOptions) Frame {
	f := Frame{
		Width:    opts.Width,
		Height:   opts.Height,
		ViewBox:  opts.ViewBox,
		Scale:    opts.Scale,
		Focused:  opts.Focused,
		Elements: make([]Element, 0, len(res.Order)),
	}
	for _, el := range res.Order {
		switch el.Kind {
		case traverse.KindNode:
			p := NodePropsFor(el.Node, opts.Scale)
			p.Focused = el.Node.ID == opts.Focused
			f.Elements = append(f.Elements, Element{Kind: el.Kind.String(), Node: &p})
		case traverse.KindLink:
			p := LinkPropsFor(el.Link, opts.Scale)
			f.Elements = append(f.Elements, Element{Kind: el.Kind.String(), Link: &p})
		}
	}
	return f
}

// Nodes returns the node props of f in order.
func (f Frame) Nodes() []NodeProps {
	var out []NodeProps
	for _, el := range f.Elements {
		if el.Node != nil {
			out = append(out, *el.Node)
		}
	}
	return out
}

// Links returns the link props of f in order.
func (f Frame) Links() []LinkProps {
	var out []LinkProps
	for _, el := range f.Elements {
		if el.Link != nil {
			out = append(out, *el.Link)
		}
	}
	return out
}
