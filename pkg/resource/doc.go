// Package resource manages per-node state that outlives a single tick:
// compiled shader programs, 3D objects, timing queues, connection
// adapters, and similar handles owned by an executor family.
//
// # Overview
//
// Each executor family that needs cross-tick state owns a resource.Table
// keyed by node id and registers it with a Manager. The scheduler's
// Engine.RemoveNode calls Manager.DisposeNode when a node is removed from
// a flow; the scheduler's
// Stop calls Manager.DisposeAll. A periodic Sweep, given the currently
// valid node-id set, drops any family state keyed by a node id that no
// longer exists — the safety net for bulk graph edits that skip individual
// removal notifications.
//
// # Why a separate package from state
//
// The predecessor of this engine kept a single mutex-guarded map for
// variables and cache. Here every family (shader cache, 3D object cache,
// connection adapters, ...) needs its own typed table, so the shape is
// generalized into resource.Table[T] plus a Manager that only knows about
// the Family interface, not the concrete value types.
package resource
