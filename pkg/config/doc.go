// Package config provides the typed configuration for forcegraph scenes.
//
// Configuration is layered. Every node and link style property is resolved in
// a fixed precedence order:
//
//  1. The value set on the entity itself (a node or link in the input graph)
//  2. The shared value passed alongside the node or link list
//  3. The global default from [Default]
//
// Optional properties are pointers so that "unset" is distinguishable from a
// zero value: a node with size 0 is different from a node without a size.
// [MergeNode] and [MergeLink] perform the merge and return fully resolved
// [NodeStyle] and [LinkStyle] values.
//
// # Global Defaults
//
// [Default] returns a fresh copy of the built-in configuration on every call.
// There is no mutable package-level default; callers construct one value at
// startup and pass it down.
//
//	cfg := config.Default()
//	cfg.Sim.Gravity = -250
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Files
//
// [Load] reads TOML (.toml) or YAML (.yaml, .yml) files and overlays them on
// [Default], so a file only needs to name the values it changes:
//
//	width = 1200
//	height = 900
//
//	[sim]
//	gravity = -250
//	link_length = 60
//
//	[node]
//	color = "#4f46e5"
package config
