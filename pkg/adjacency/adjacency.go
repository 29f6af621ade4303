// Package adjacency builds the bidirectional link index that traversal walks.
//
// An [Index] is a [matrix.Matrix] keyed by (node id, node id). Links are
// directed in the store but undirected by default here: every link is written
// at [source][target], and mirrored at [target][source] unless that cell is
// already taken.
//
// # Tie-break Rules
//
// The caller's link order is significant:
//
//   - Same-direction duplicates: the later link wins the cell
//   - An explicit reverse link always beats the mirror of its forward link,
//     whichever comes first in the input
//
// The second rule falls out of the write order. A forward link only mirrors
// into an empty cell, and an explicit link always overwrites its own cell.
//
// # Lifetime
//
// An index is a snapshot. Rebuild it with [Build] whenever either store reports
// a topology change; rows of removed nodes vanish with the old index.
package adjacency

import (
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/matrix"
	"github.com/matzehuels/forcegraph/pkg/store"
)

// Index is an adjacency snapshot over stored links.
type Index struct {
	m *matrix.Matrix[string, string, *store.Link]
}

// Degree holds the in and out degree of a node, weighted by link value.
type Degree struct {
	In, Out float64
}

// Build indexes links in caller order. Links whose endpoints are not both in
// ns, or that ls did not store, are ignored.
func Build(links []graph.Link, ls *store.LinkStore, ns *store.NodeStore) *Index {
	m := matrix.New[string, string, *store.Link]()
	for _, in := range links {
		if !ns.Has(in.Source) || !ns.Has(in.Target) {
			continue
		}
		l, ok := ls.Lookup(store.KeyOf(in))
		if !ok {
			continue
		}
		m.Set(in.Source, in.Target, l)
		if !m.Has(in.Target, in.Source) {
			m.Set(in.Target, in.Source, l)
		}
	}
	return &Index{m: m}
}

// Empty returns an index with no links.
func Empty() *Index {
	return &Index{m: matrix.New[string, string, *store.Link]()}
}

// ForEachWithSource calls fn for every link in row id, mirrors included, in
// insertion order. An unknown id is a no-op.
func (x *Index) ForEachWithSource(id string, fn func(*store.Link)) {
	x.m.EachInRow(id, func(_ string, l *store.Link) { fn(l) })
}

// Row returns the links of row id in insertion order.
func (x *Index) Row(id string) []*store.Link { return x.m.Row(id) }

// Get returns the link at [source][target].
func (x *Index) Get(source, target string) (*store.Link, bool) {
	return x.m.Get(source, target)
}

// Neighbors returns the ids reachable in one step from id.
func (x *Index) Neighbors(id string) []string { return x.m.Columns(id) }

// Degree computes the weighted in and out degree of id from the matrix.
// Mirrored cells count, so an undirected link adds to both directions.
func (x *Index) Degree(id string) Degree {
	var d Degree
	x.m.EachInRow(id, func(_ string, l *store.Link) { d.Out += l.Style.Value })
	for _, row := range x.m.Rows() {
		if l, ok := x.m.Get(row, id); ok {
			d.In += l.Style.Value
		}
	}
	return d
}

// Len returns the number of occupied cells, mirrors included.
func (x *Index) Len() int { return x.m.Len() }
