// Package physics implements a velocity Verlet force simulation for laying out
// node-link graphs.
//
// The model follows the classic force-directed approach: every tick the
// simulation's alpha (its "temperature") moves toward alphaTarget, each
// registered [Force] nudges body velocities in proportion to alpha, and then
// velocities are damped and integrated into positions. Once alpha falls below
// alphaMin the simulation stops and emits [EventEnd].
//
// # Bodies and Springs
//
// A [Body] is the position datum of one node and a [Spring] connects two
// bodies. Both are owned by the caller: the simulation mutates their fields in
// place and never replaces them, so a store that holds the same pointers sees
// every update without copying.
//
// A body whose FX/FY is set is pinned. Integration snaps it to the pin and
// zeroes its velocity, so forces acting on it have no effect while neighbours
// keep moving.
//
// # Forces
//
// Forces are applied in registration order:
//
//   - [ManyBody]: pairwise charge (negative repels), approximated with a
//     Barnes-Hut quadtree from gonum's spatial/barneshut package
//   - [LinkForce]: spring toward a rest distance, biased by endpoint degree
//   - [Collide]: keeps bodies at least two radii apart
//   - [Center]: translates the whole layout so its mean sits on a point
//   - [PositionX], [PositionY]: weak per-body pull toward a coordinate
//
// # Determinism
//
// Coincident bodies are separated by a tiny random jiggle. The random source is
// seeded (see [WithSeed]), so two simulations built from the same input produce
// identical layouts.
//
// # Driving the Simulation
//
// The simulation owns no timer. Callers advance it with [Simulation.Tick] from
// whatever loop they run (a frame ticker in a scene, a tight loop in
// [Simulation.Settle] for headless rendering).
package physics
