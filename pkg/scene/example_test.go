package scene_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

func ExampleScene() {
	s, err := scene.New(config.Default(), scene.WithLogger(log.New(io.Discard)))
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	g := graph.Graph{
		Nodes: []graph.Node{{ID: "A"}, {ID: "B1"}, {ID: "B2"}, {ID: "C"}, {ID: "orphan"}},
		Links: []graph.Link{
			{Source: "A", Target: "B1"},
			{Source: "A", Target: "B2"},
			{Source: "B1", Target: "C"},
			{Source: "B2", Target: "C"},
		},
	}
	if _, err := s.Update(ctx, g); err != nil {
		panic(err)
	}

	f, err := s.Frame(ctx)
	if err != nil {
		panic(err)
	}
	for _, el := range f.Elements {
		if el.Node != nil {
			fmt.Println("node", el.Node.ID)
		} else {
			fmt.Println("link", el.Link.Source, el.Link.Target)
		}
	}
	// Output:
	// node A
	// link A B1
	// node B1
	// link A B2
	// node B2
	// link B1 C
	// node C
	// link B2 C
}
