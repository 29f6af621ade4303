package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

func ExampleRead() {
	g, err := graph.Read(strings.NewReader(`
nodes:
  - id: app
  - id: lib
    force: {fx: 10, fy: 20}
links:
  - {source: app, target: lib}
`), graph.FormatYAML)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("root:", g.Root())
	fmt.Println("lib pinned:", g.Nodes[1].Force.Pinned())
	fmt.Println("links:", len(g.Links))
	// Output:
	// root: app
	// lib pinned: true
	// links: 1
}
