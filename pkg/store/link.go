package store

import (
	"slices"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/physics"
)

// LinkKey identifies a link by its ordered endpoint pair.
type LinkKey struct {
	Source, Target string
}

// KeyOf returns the key of a caller link.
func KeyOf(l graph.Link) LinkKey { return LinkKey{Source: l.Source, Target: l.Target} }

// Reverse returns the key of the opposite direction.
func (k LinkKey) Reverse() LinkKey { return LinkKey{Source: k.Target, Target: k.Source} }

func (k LinkKey) String() string { return k.Source + "->" + k.Target }

// Link is the canonical entity of one ordered endpoint pair.
type Link struct {
	Key    LinkKey
	Handle Handle
	Source *Node
	Target *Node
	Style  config.LinkStyle
	Force  *physics.Spring
}

// Other returns the endpoint opposite to n. For a self-loop it returns n.
func (l *Link) Other(n *Node) *Node {
	if l.Source == n {
		return l.Target
	}
	return l.Source
}

// LinkStore holds the link entities of a scene.
type LinkStore struct {
	defaults config.LinkStyle
	byKey    map[LinkKey]*Link
	order    []*Link
	slots    arena[Link]
	skipped  []LinkKey
}

// NewLinkStore returns an empty store. defaults is the global style layer.
func NewLinkStore(defaults config.LinkStyle) *LinkStore {
	return &LinkStore{defaults: defaults, byKey: make(map[LinkKey]*Link)}
}

// SetDefaults replaces the global style layer.
func (s *LinkStore) SetDefaults(d config.LinkStyle) { s.defaults = d }

// Reconcile brings the store in line with links and reports whether any link
// was added or removed. nodes must already be reconciled for this pass.
//
// Stored links whose endpoint entity is gone, or was replaced by a new entity
// with the same id, are dropped and rebuilt against the current nodes.
func (s *LinkStore) Reconcile(links []graph.Link, shared config.LinkConfig, nodes *NodeStore) bool {
	changed := false
	s.skipped = s.skipped[:0]

	incoming := make(map[LinkKey]struct{}, len(links))
	for _, l := range links {
		incoming[KeyOf(l)] = struct{}{}
	}
	for _, l := range s.order {
		_, wanted := incoming[l.Key]
		if wanted && s.resolved(l, nodes) {
			continue
		}
		s.remove(l)
		changed = true
	}

	order := make([]*Link, 0, len(incoming))
	seen := make(map[*Link]bool, len(incoming))
	for _, in := range links {
		key := KeyOf(in)
		l, ok := s.byKey[key]
		if !ok {
			src, okS := nodes.Lookup(in.Source)
			tgt, okT := nodes.Lookup(in.Target)
			if !okS || !okT {
				if !slices.Contains(s.skipped, key) {
					s.skipped = append(s.skipped, key)
				}
				continue
			}
			l = s.create(key, src, tgt)
			changed = true
		}
		l.Style = config.MergeLink(in.LinkConfig, shared, s.defaults)
		if !seen[l] {
			seen[l] = true
			order = append(order, l)
		}
	}
	s.order = order
	return changed
}

func (s *LinkStore) resolved(l *Link, nodes *NodeStore) bool {
	src, ok := nodes.Lookup(l.Key.Source)
	if !ok || src != l.Source {
		return false
	}
	tgt, ok := nodes.Lookup(l.Key.Target)
	return ok && tgt == l.Target
}

func (s *LinkStore) create(key LinkKey, src, tgt *Node) *Link {
	l := &Link{
		Key:    key,
		Source: src,
		Target: tgt,
		Force:  &physics.Spring{Source: src.Body, Target: tgt.Body},
	}
	l.Handle = s.slots.alloc(l)
	s.byKey[key] = l
	return l
}

func (s *LinkStore) remove(l *Link) {
	delete(s.byKey, l.Key)
	s.slots.release(l.Handle)
}

// Lookup returns the link stored under key.
func (s *LinkStore) Lookup(key LinkKey) (*Link, bool) {
	l, ok := s.byKey[key]
	return l, ok
}

// Get returns the link for a caller link. A miss is an internal error.
func (s *LinkStore) Get(key LinkKey) (*Link, error) {
	if l, ok := s.byKey[key]; ok {
		return l, nil
	}
	return nil, errors.Internal("link store has no entity for %s", key)
}

// Links returns the stored links in input order.
func (s *LinkStore) Links() []*Link { return slices.Clone(s.order) }

// Springs returns the force datums in input order.
func (s *LinkStore) Springs() []*physics.Spring {
	out := make([]*physics.Spring, len(s.order))
	for i, l := range s.order {
		out[i] = l.Force
	}
	return out
}

// Skipped returns the keys of input links that the last reconcile could not
// store because an endpoint is unknown.
func (s *LinkStore) Skipped() []LinkKey { return slices.Clone(s.skipped) }

// At returns the link in slot h, or nil.
func (s *LinkStore) At(h Handle) *Link { return s.slots.at(h) }

// Len returns the number of stored links.
func (s *LinkStore) Len() int { return len(s.byKey) }

// Capacity returns the size of the handle space.
func (s *LinkStore) Capacity() int { return s.slots.capacity() }
