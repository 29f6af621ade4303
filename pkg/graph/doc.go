// Package graph provides the caller-facing input format for forcegraph scenes.
//
// A [Graph] is what a caller hands to a scene on every render pass: an ordered
// node list, an ordered link list, and the shared node and link configuration
// that is merged under each entity's own properties.
//
// # Ordering
//
// Order is significant and preserved through every codec:
//
//   - The first node is the root. Only entities reachable from the root render.
//   - Link order decides adjacency tie-breaks: among duplicate links the later
//     one wins, and an explicit reverse link beats the implicit mirror of its
//     forward link.
//
// # Formats
//
// Graphs are read from JSON, YAML or TOML. [ReadFile] picks the format by
// extension; [Read] takes it explicitly:
//
//	{
//	  "nodes": [{"id": "a", "size": 300}, {"id": "b", "force": {"fx": 10, "fy": 20}}],
//	  "links": [{"source": "a", "target": "b", "color": "red"}],
//	  "node_config": {"color": "#4f46e5"}
//	}
//
// Display properties of nodes and links are inlined next to the id. See
// [config.NodeConfig] and [config.LinkConfig] for the recognized keys.
//
// # Layouts
//
// A [Layout] is the settled result of a simulation: one position per node.
// Layouts are what the layout cache stores and what seeds positions on the
// next run of the same graph.
//
// # Concurrency
//
// All functions are safe for concurrent use. Graph values are plain data.
package graph
