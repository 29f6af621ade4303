// Package store owns the canonical node and link entities of a scene and
// reconciles them against the caller's input on every render pass.
//
// # Reconciliation
//
// [NodeStore.Reconcile] and [LinkStore.Reconcile] diff an incoming list
// against what is stored:
//
//   - Ids absent from the input are removed
//   - Ids already stored are updated in place: their style is re-merged, their
//     identity and position datum are kept
//   - Ids seen for the first time get a new entity
//
// Both return true when anything was added or removed. That flag is the signal
// that topology changed and the physics engine must restart.
//
// Nodes must be reconciled before links. Links resolve their endpoints against
// the node set as it is after removals, so a link naming a node that was just
// removed is dropped in the same pass. Links naming an unknown node are never
// stored; that is a normal transient state, not an error.
//
// # Datum Ownership
//
// Each node owns one [physics.Body] and each link one [physics.Spring],
// allocated when the entity is created. The same pointers are handed to the
// physics engine, which mutates them in place. Neither side ever replaces them,
// so positions survive any update that keeps the entity.
//
// # Handles
//
// Every entity carries a [Handle], an index into its store's slot arena. Freed
// slots are reused. Handles are dense, so traversal can track visited entities
// in bitsets sized by [NodeStore.Capacity] and [LinkStore.Capacity] instead of
// hashing ids.
//
// # Duplicates
//
// An id that appears twice in one input maps to one entity. The later
// occurrence's properties win and the first occurrence fixes its position in
// iteration order.
package store
