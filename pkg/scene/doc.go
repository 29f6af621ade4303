// Package scene orchestrates one interactive force-directed graph.
//
// # Overview
//
// A [Scene] owns everything that outlives a single render pass: the node and
// link stores, the adjacency index, the simulation bridge, and the zoom
// transform. Each call to [Scene.Update] runs one reconciliation:
//
//	caller graph ─▶ NodeStore.Reconcile ─▶ LinkStore.Reconcile
//	                     │ topology changed?
//	                     ▼
//	              adjacency.Build ─▶ Bridge.Restart
//
// and each call to [Scene.Frame] walks the index from the root node and
// builds a [render.Frame] in traversal order.
//
// Node reconciliation always completes before link reconciliation, so links
// are matched against the node set of the same update.
//
// # Event Loop
//
// [Scene.Run] is the concurrent entry point. One goroutine owns the scene;
// everything else talks to it by sending [Event] values:
//
//	frames := time.NewTicker(16 * time.Millisecond)
//	events := make(chan scene.Event)
//	go s.Run(ctx, frames.C, events, func(f render.Frame) error {
//	    return ws.WriteJSON(f)
//	})
//	events <- scene.UpdateEvent(g)
//	events <- scene.DragMoveEvent("a", 4, -2)
//
// Frame ticks advance the simulation; a frame is built and handed to the sink
// whenever the bridge asks for a re-render. Nothing else touches the stores,
// so they need no locks.
//
// Direct method calls ([Scene.Update], [Scene.Tick], [Scene.Frame]) are for
// single-goroutine use such as tests and headless rendering.
//
// # Zoom and Focus
//
// The scene keeps a [Transform] {X, Y, K}. The frame's view box is derived
// from it, node and font sizes are scaled by 1/K, and drag deltas arrive in
// screen units and are divided by K.
package scene
