// Package traverse computes the render order of a scene.
//
// [Walk] runs a breadth-first search from the root node over an adjacency
// index. The emitted sequence interleaves nodes and links exactly as they are
// discovered, and it is the order elements are drawn and focused in. Entities
// that cannot be reached from the root are not part of the result and are
// never rendered.
//
// Visited state is kept in bitsets indexed by store handle, one for nodes and
// one for links, so node and link identities can never collide.
package traverse

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/forcegraph/pkg/adjacency"
	"github.com/matzehuels/forcegraph/pkg/store"
)

// Kind distinguishes the element types of a [Result].
type Kind uint8

const (
	KindNode Kind = iota
	KindLink
)

func (k Kind) String() string {
	if k == KindLink {
		return "link"
	}
	return "node"
}

// Element is one entry of the render order. Exactly one of Node and Link is set.
type Element struct {
	Kind Kind
	Node *store.Node
	Link *store.Link
}

// Result is the outcome of a walk.
type Result struct {
	// Order is the interleaved render order.
	Order []Element
	// Nodes and Links are Order split by kind.
	Nodes []*store.Node
	Links []*store.Link
}

// Walk traverses idx breadth-first from root. A nil root yields an empty result.
//
// For each dequeued node, every link in its row is emitted the first time it
// is seen, followed by the link's far endpoint if that node is new. New nodes
// are enqueued, so a node reachable along several paths appears once, at its
// first discovery.
func Walk(root *store.Node, idx *adjacency.Index) *Result {
	res := &Result{}
	if root == nil {
		return res
	}

	var seenNodes, seenLinks bitset.BitSet
	queue := []*store.Node{root}
	seenNodes.Set(uint(root.Handle))
	res.emitNode(root)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		idx.ForEachWithSource(current.ID, func(l *store.Link) {
			if !seenLinks.Test(uint(l.Handle)) {
				seenLinks.Set(uint(l.Handle))
				res.emitLink(l)
			}
			next := l.Other(current)
			if !seenNodes.Test(uint(next.Handle)) {
				seenNodes.Set(uint(next.Handle))
				res.emitNode(next)
				queue = append(queue, next)
			}
		})
	}
	return res
}

func (r *Result) emitNode(n *store.Node) {
	r.Order = append(r.Order, Element{Kind: KindNode, Node: n})
	r.Nodes = append(r.Nodes, n)
}

func (r *Result) emitLink(l *store.Link) {
	r.Order = append(r.Order, Element{Kind: KindLink, Link: l})
	r.Links = append(r.Links, l)
}

// Reachable reports whether n was visited.
func (r *Result) Reachable(n *store.Node) bool {
	for _, v := range r.Nodes {
		if v == n {
			return true
		}
	}
	return false
}
