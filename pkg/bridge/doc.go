// Package bridge connects the entity stores to a physics engine.
//
// A [Bridge] owns the engine's lifecycle. It has two states:
//
//	Idle ──Restart/DragStart──▶ Running ──Stop/engine end──▶ Idle
//
// # Restart
//
// [Bridge.Restart] is called whenever reconciliation reports a topology
// change. It stops the current engine, discards it, and builds a fresh one over
// the stores' current datum slices. The datums are the same pointers the
// stores hold, so positions computed before the restart carry over for every
// node that survived.
//
// # Re-render Requests
//
// Engine ticks arrive at frame rate. Each tick goes through a [Throttle]: the
// first tick in a window requests a re-render, later ticks in the same window
// only mark a trailing request, which is delivered by the first frame after
// the window closes. The engine's end event always requests a final render.
//
// # Drag
//
// [Bridge.DragStart] pins the node where it is and raises the engine's alpha
// target so the layout relaxes around it. [Bridge.DragMove] moves the pin by a
// pointer delta divided by the zoom scale. [Bridge.DragEnd] releases the pin
// unless the caller pinned the node explicitly, and lets the engine cool.
//
// # Static Graphs
//
// A bridge created for a static graph never builds an engine. Restart only
// places unplaced bodies, and drag (when allowed) moves bodies directly.
package bridge
