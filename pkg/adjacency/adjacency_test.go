package adjacency

import (
	"testing"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/store"
)

type fixture struct {
	ns    *store.NodeStore
	ls    *store.LinkStore
	links []graph.Link
}

func build(t *testing.T, ids []string, pairs ...string) (*Index, fixture) {
	t.Helper()
	var nodes []graph.Node
	for _, id := range ids {
		nodes = append(nodes, graph.Node{ID: id})
	}
	var links []graph.Link
	for i := 0; i+1 < len(pairs); i += 2 {
		links = append(links, graph.Link{Source: pairs[i], Target: pairs[i+1]})
	}
	f := fixture{
		ns:    store.NewNodeStore(config.DefaultNodeStyle()),
		ls:    store.NewLinkStore(config.DefaultLinkStyle()),
		links: links,
	}
	f.ns.Reconcile(nodes, config.NodeConfig{})
	f.ls.Reconcile(links, config.LinkConfig{}, f.ns)
	return Build(links, f.ls, f.ns), f
}

func keys(x *Index, id string) []store.LinkKey {
	var out []store.LinkKey
	x.ForEachWithSource(id, func(l *store.Link) { out = append(out, l.Key) })
	return out
}

func TestBidirectional(t *testing.T) {
	x, f := build(t, []string{"a", "b"}, "a", "b")
	ab, _ := f.ls.Lookup(store.LinkKey{Source: "a", Target: "b"})

	got := keys(x, "b")
	if len(got) != 1 || got[0] != ab.Key {
		t.Fatalf("ForEachWithSource(b) = %v, want [a->b]", got)
	}
	if l, _ := x.Get("b", "a"); l != ab {
		t.Error("mirror must be the same entity")
	}
	if x.Len() != 2 {
		t.Errorf("Len() = %d, want 2", x.Len())
	}
}

func TestExplicitReverseWins(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
	}{
		{"forward first", []string{"a", "b", "b", "a"}},
		{"reverse first", []string{"b", "a", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, f := build(t, []string{"a", "b"}, tt.pairs...)
			ab, _ := f.ls.Lookup(store.LinkKey{Source: "a", Target: "b"})
			ba, _ := f.ls.Lookup(store.LinkKey{Source: "b", Target: "a"})

			if l, _ := x.Get("b", "a"); l != ba {
				t.Errorf("[b][a] = %v, want explicit b->a", l.Key)
			}
			if l, _ := x.Get("a", "b"); l != ab {
				t.Errorf("[a][b] = %v, want explicit a->b", l.Key)
			}
		})
	}
}

func TestDuplicateSameDirectionLastWins(t *testing.T) {
	ns := store.NewNodeStore(config.DefaultNodeStyle())
	ls := store.NewLinkStore(config.DefaultLinkStyle())
	ns.Reconcile([]graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}, config.NodeConfig{})
	links := []graph.Link{{Source: "a", Target: "b"}, {Source: "a", Target: "c"}, {Source: "a", Target: "b"}}
	ls.Reconcile(links, config.LinkConfig{}, ns)
	x := Build(links, ls, ns)

	// One entity per key, and the cell keeps its first insertion position.
	got := keys(x, "a")
	if len(got) != 2 || got[0] != (store.LinkKey{Source: "a", Target: "b"}) {
		t.Errorf("row a = %v, want [a->b a->c]", got)
	}
}

func TestIgnoresUnknownEndpoints(t *testing.T) {
	x, _ := build(t, []string{"a", "b"}, "a", "b", "a", "ghost")
	if got := keys(x, "a"); len(got) != 1 {
		t.Errorf("row a = %v, want only a->b", got)
	}
	if got := keys(x, "ghost"); len(got) != 0 {
		t.Errorf("row ghost = %v, want empty", got)
	}
}

func TestRowOrderFollowsInput(t *testing.T) {
	x, _ := build(t, []string{"a", "b", "c", "d"}, "a", "c", "d", "a", "a", "b")
	want := []store.LinkKey{{Source: "a", Target: "c"}, {Source: "d", Target: "a"}, {Source: "a", Target: "b"}}
	got := keys(x, "a")
	if len(got) != len(want) {
		t.Fatalf("row a = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row a[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if n := x.Neighbors("a"); n[0] != "c" || n[1] != "d" || n[2] != "b" {
		t.Errorf("Neighbors(a) = %v, want [c d b]", n)
	}
}

func TestStaleLinksAfterNodeRemoval(t *testing.T) {
	_, f := build(t, []string{"A", "B1", "B2", "C"}, "A", "B1", "A", "B2", "B1", "C", "B2", "C")

	f.ns.Reconcile([]graph.Node{{ID: "A"}, {ID: "B2"}, {ID: "C"}}, config.NodeConfig{})
	f.ls.Reconcile(f.links, config.LinkConfig{}, f.ns)
	x := Build(f.links, f.ls, f.ns)

	if _, ok := x.Get("A", "B1"); ok {
		t.Error("A->B1 still indexed")
	}
	if _, ok := x.Get("C", "B1"); ok {
		t.Error("mirror of B1->C still indexed")
	}
	if got := keys(x, "B1"); len(got) != 0 {
		t.Errorf("row B1 = %v, want none", got)
	}
	if got := keys(x, "A"); len(got) != 1 {
		t.Errorf("row A = %v, want [A->B2]", got)
	}
}

func TestDegree(t *testing.T) {
	ns := store.NewNodeStore(config.DefaultNodeStyle())
	ls := store.NewLinkStore(config.DefaultLinkStyle())
	ns.Reconcile([]graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}, config.NodeConfig{})
	links := []graph.Link{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c", LinkConfig: config.LinkConfig{Value: config.Ptr(3.0)}},
	}
	ls.Reconcile(links, config.LinkConfig{}, ns)
	x := Build(links, ls, ns)

	if d := x.Degree("a"); d.Out != 4 || d.In != 4 {
		t.Errorf("Degree(a) = %+v, want {In:4 Out:4}", d)
	}
	if d := x.Degree("c"); d.Out != 3 || d.In != 3 {
		t.Errorf("Degree(c) = %+v, want {In:3 Out:3}", d)
	}
	if d := x.Degree("missing"); d != (Degree{}) {
		t.Errorf("Degree(missing) = %+v, want zero", d)
	}
}

func TestEmpty(t *testing.T) {
	x := Empty()
	called := false
	x.ForEachWithSource("a", func(*store.Link) { called = true })
	if called || x.Len() != 0 {
		t.Error("empty index should have no links")
	}
}
