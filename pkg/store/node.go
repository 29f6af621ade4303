package store

import (
	"slices"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/physics"
)

// Node is the canonical entity of one node id.
type Node struct {
	ID     string
	Handle Handle
	Style  config.NodeStyle
	// Pinned is set when the caller fixed the node with explicit fx/fy.
	Pinned bool
	Body   *physics.Body

	pinX, pinY *float64
}

// Label returns the display label, falling back to the id.
func (n *Node) Label() string {
	if n.Style.Label != "" {
		return n.Style.Label
	}
	return n.ID
}

// NodeStore holds the node entities of a scene.
type NodeStore struct {
	defaults config.NodeStyle
	byID     map[string]*Node
	order    []*Node
	slots    arena[Node]
	root     *Node
}

// NewNodeStore returns an empty store. defaults is the global style layer.
func NewNodeStore(defaults config.NodeStyle) *NodeStore {
	return &NodeStore{defaults: defaults, byID: make(map[string]*Node)}
}

// SetDefaults replaces the global style layer. It takes effect on the next
// [NodeStore.Reconcile].
func (s *NodeStore) SetDefaults(d config.NodeStyle) { s.defaults = d }

// Reconcile brings the store in line with nodes and reports whether any id
// was added or removed.
func (s *NodeStore) Reconcile(nodes []graph.Node, shared config.NodeConfig) bool {
	changed := false

	incoming := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		incoming[n.ID] = struct{}{}
	}
	for _, n := range s.order {
		if _, ok := incoming[n.ID]; !ok {
			delete(s.byID, n.ID)
			s.slots.release(n.Handle)
			changed = true
		}
	}

	order := make([]*Node, 0, len(incoming))
	seen := make(map[*Node]bool, len(incoming))
	for _, in := range nodes {
		n, ok := s.byID[in.ID]
		if !ok {
			n = s.create(in)
			changed = true
		}
		s.update(n, in, shared)
		if !seen[n] {
			seen[n] = true
			order = append(order, n)
		}
	}
	s.order = order

	s.root = nil
	if len(nodes) > 0 {
		s.root = s.byID[nodes[0].ID]
	}
	return changed
}

func (s *NodeStore) create(in graph.Node) *Node {
	body := physics.NewBody()
	if f := in.Force; f != nil {
		body = physics.NewBodyNear(f.X, f.Y)
	}
	n := &Node{ID: in.ID, Body: body}
	n.Handle = s.slots.alloc(n)
	s.byID[in.ID] = n
	return n
}

func (s *NodeStore) update(n *Node, in graph.Node, shared config.NodeConfig) {
	n.Style = config.MergeNode(in.NodeConfig, shared, s.defaults)

	var fx, fy *float64
	if in.Force != nil {
		fx, fy = in.Force.FX, in.Force.FY
	}
	if fx == nil && fy == nil {
		if n.Pinned {
			n.Body.Unpin()
			n.Pinned = false
			n.pinX, n.pinY = nil, nil
		}
		return
	}
	// Re-apply the caller's pin only when it changed so that a drag of a
	// pinned node survives an unchanged input.
	if !n.Pinned || !sameFloat(n.pinX, fx) || !sameFloat(n.pinY, fy) {
		n.Body.FX, n.Body.FY = copyFloat(fx), copyFloat(fy)
		if fx != nil {
			n.Body.X = *fx
		}
		if fy != nil {
			n.Body.Y = *fy
		}
	}
	n.Pinned = true
	n.pinX, n.pinY = copyFloat(fx), copyFloat(fy)
}

// Get returns the node with id. A miss means reconciliation handed out an id
// it does not hold, so it is reported as an internal error.
func (s *NodeStore) Get(id string) (*Node, error) {
	if n, ok := s.byID[id]; ok {
		return n, nil
	}
	return nil, errors.Internal("node store has no entity for id %q", id)
}

// Lookup returns the node with id, if any.
func (s *NodeStore) Lookup(id string) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Has reports whether id is stored.
func (s *NodeStore) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// At returns the node in slot h, or nil.
func (s *NodeStore) At(h Handle) *Node { return s.slots.at(h) }

// Root returns the entity of the first input node, or nil.
func (s *NodeStore) Root() *Node { return s.root }

// Nodes returns the stored nodes in input order.
func (s *NodeStore) Nodes() []*Node { return slices.Clone(s.order) }

// Bodies returns the position datums in input order. The pointers are the
// ones the entities hold.
func (s *NodeStore) Bodies() []*physics.Body {
	out := make([]*physics.Body, len(s.order))
	for i, n := range s.order {
		out[i] = n.Body
	}
	return out
}

// Len returns the number of stored nodes.
func (s *NodeStore) Len() int { return len(s.byID) }

// Capacity returns the size of the handle space. Every live handle is below it.
func (s *NodeStore) Capacity() int { return s.slots.capacity() }

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
