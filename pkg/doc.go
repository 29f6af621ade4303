// Package pkg provides the core libraries for forcegraph, an interactive
// force-directed graph renderer.
//
// # Overview
//
// forcegraph takes a declarative graph (nodes, links and optional styling),
// reconciles it into long-lived entities, runs a force simulation over them
// and produces an ordered frame of drawable elements on every tick. The pkg
// directory is organized into four areas:
//
//  1. Input - [graph] and [config] describe what to draw and how
//  2. State - [store], [matrix] and [adjacency] hold the reconciled entities
//  3. Simulation - [physics] and [bridge] move the entities
//  4. Output - [traverse], [render] and [scene] turn state into frames
//
// # Architecture
//
// The typical data flow through a scene:
//
//	graph.Graph (JSON/YAML/TOML)
//	         ↓
//	    [scene] Update (reconcile nodes and links)
//	         ↓
//	    [bridge] + [physics] (tick the simulation)
//	         ↓
//	    [traverse] (breadth-first draw order from the root)
//	         ↓
//	    [render] Frame → SVG/JSON/DOT/ASCII/PDF/PNG
//
// # Quick Start
//
//	s, _ := scene.New(config.Default())
//	defer s.Stop()
//
//	g, _ := graph.ReadFile("graph.json")
//	s.Update(ctx, g)
//	s.Settle(ctx, 300)
//
//	f, _ := s.Frame(ctx)
//	svg := render.RenderSVG(f)
//
// # Main Packages
//
// ## Model
//
// [graph] - Serialization types for input graphs and saved layouts.
//
// [config] - Scene configuration: viewport, physics parameters and
// cascading node/link styles.
//
// [errors] - Coded errors shared by every package, with user-facing
// messages and HTTP status mapping.
//
// ## State
//
// [store] - Arenas of node and link entities addressed by stable handles.
//
// [matrix] - Two-key associative container that keeps insertion order.
//
// [adjacency] - Undirected neighbour index built on [matrix].
//
// ## Simulation
//
// [physics] - Velocity Verlet simulation with charge, link, center and
// collision forces on top of gonum's Barnes-Hut tree.
//
// [bridge] - Keeps the simulation in step with the entity stores and
// handles drag pinning and alpha reheating.
//
// ## Output
//
// [traverse] - Breadth-first draw ordering from the scene root.
//
// [render] - Frame construction and SVG, JSON and ASCII encoders.
//
// [render/dot] - Graphviz DOT export and native Graphviz rendering.
//
// [scene] - Ties everything together and drives the frame loop.
//
// ## Infrastructure
//
// [cache] - Layout and artifact caching on disk or in Redis.
//
// [observability] - Hook interfaces for metrics, with a Prometheus
// implementation in [observability/prom].
//
// [buildinfo] - Version metadata injected at build time.
package pkg
