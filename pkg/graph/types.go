package graph

import (
	"errors"
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/config"
	fgerrors "github.com/matzehuels/forcegraph/pkg/errors"
)

// ErrEmptyNodeID is returned by [Graph.Validate] for a node without an id.
var ErrEmptyNodeID = errors.New("empty node id")

// =============================================================================
// Graph - Caller Input
// =============================================================================

// Graph is one render pass worth of input.
type Graph struct {
	Nodes      []Node            `json:"nodes" yaml:"nodes" toml:"nodes"`
	Links      []Link            `json:"links" yaml:"links" toml:"links"`
	NodeConfig config.NodeConfig `json:"node_config,omitempty" yaml:"node_config,omitempty" toml:"node_config,omitempty"`
	LinkConfig config.LinkConfig `json:"link_config,omitempty" yaml:"link_config,omitempty" toml:"link_config,omitempty"`
	// FocusedNodeID, when set, centres the view on that node.
	FocusedNodeID string `json:"focused_node_id,omitempty" yaml:"focused_node_id,omitempty" toml:"focused_node_id,omitempty"`
}

// Node is a caller-supplied node. Display properties are inlined.
type Node struct {
	ID    string    `json:"id" yaml:"id" toml:"id"`
	Force *Position `json:"force,omitempty" yaml:"force,omitempty" toml:"force,omitempty"`

	config.NodeConfig `yaml:",inline"`
}

// Position holds optional initial (X, Y) and pinned (FX, FY) coordinates.
type Position struct {
	X  *float64 `json:"x,omitempty" yaml:"x,omitempty" toml:"x,omitempty"`
	Y  *float64 `json:"y,omitempty" yaml:"y,omitempty" toml:"y,omitempty"`
	FX *float64 `json:"fx,omitempty" yaml:"fx,omitempty" toml:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty" yaml:"fy,omitempty" toml:"fy,omitempty"`
}

// Pinned reports whether the position fixes the node in place.
func (p *Position) Pinned() bool {
	return p != nil && (p.FX != nil || p.FY != nil)
}

// Link is a caller-supplied link between two node ids.
type Link struct {
	Source string `json:"source" yaml:"source" toml:"source"`
	Target string `json:"target" yaml:"target" toml:"target"`

	config.LinkConfig `yaml:",inline"`
}

// Root returns the id of the first node, or "" for an empty graph.
func (g *Graph) Root() string {
	if len(g.Nodes) == 0 {
		return ""
	}
	return g.Nodes[0].ID
}

// Validate rejects nodes with an empty id. Any other string is a valid id.
// Links are not checked: a link naming an unknown node is tolerated and
// simply never stored.
func (g *Graph) Validate() error {
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, ErrEmptyNodeID, "node %d", i)
		}
	}
	return nil
}

// =============================================================================
// Layout - Settled Positions
// =============================================================================

// Layout is a set of node positions, in node order.
type Layout struct {
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Positions []NodePosition `json:"positions"`
	Ticks     int            `json:"ticks,omitempty"`

	index map[string]int
}

// NodePosition is one entry of a [Layout].
type NodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Lookup returns the position stored for id.
func (l *Layout) Lookup(id string) (NodePosition, bool) {
	if l.index == nil {
		l.index = make(map[string]int, len(l.Positions))
		for i, p := range l.Positions {
			l.index[p.ID] = i
		}
	}
	i, ok := l.index[id]
	if !ok {
		return NodePosition{}, false
	}
	return l.Positions[i], true
}

// Seed returns a copy of g whose nodes without an explicit position take
// their coordinates from l. Explicit positions and pins are left alone.
func (l *Layout) Seed(g Graph) Graph {
	out := g
	out.Nodes = make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		if p, ok := l.Lookup(n.ID); ok && (n.Force == nil || (n.Force.X == nil && n.Force.Y == nil)) {
			f := Position{X: &p.X, Y: &p.Y}
			if n.Force != nil {
				f.FX, f.FY = n.Force.FX, n.Force.FY
			}
			n.Force = &f
		}
		out.Nodes[i] = n
	}
	return out
}

func (p NodePosition) String() string {
	return fmt.Sprintf("%s@(%.1f,%.1f)", p.ID, p.X, p.Y)
}
