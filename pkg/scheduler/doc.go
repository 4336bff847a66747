// Package scheduler drives the dataflow graph's per-tick execution: a
// topological pass over the active flow's nodes, gathering inputs and
// controls for each, dispatching to the registered executor, and caching
// outputs for the next tick's producers to read.
//
// # Overview
//
// Engine replaces a one-shot "run the workflow once" model with a
// continuously-ticking loop: Start arms the clock, Tick executes exactly
// one frame, and Pause/Resume/Stop control the loop without losing the
// topology or cached state between frames. Node state itself (compiled
// shaders, timing queues, connectivity caches) lives in per-family
// resource tables outside the Engine; Stop disposes all of it through the
// resource manager. Connection adapters belong to a connection.Manager,
// which the Engine does not hold.
//
// # Execution order
//
// Nodes run in Kahn's-algorithm topological order with insertion-order
// tie-breaking (pkg/graph). A cycle fails the whole tick rather than
// running a partial prefix: the tick is recorded as skipped and no
// executor runs.
//
// # Errors
//
// An executor error is captured per node; the node's output slot is left
// empty for the tick (downstream reads see absence, not a stale value),
// and a per-node failure counter accumulates so the editor can flag
// chronically-failing nodes. One node's error never aborts the tick for
// its siblings.
//
// # Subflows
//
// A subflow-instance node recurses into the Engine via the
// executor.SubflowContext seam: it gets back a fresh topological pass over
// the referenced Flow, with subflow-input/subflow-output nodes reading and
// writing a scoped store keyed by the instance id so sibling and nested
// instances never collide.
package scheduler
