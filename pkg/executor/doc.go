// Package executor implements the node-type execution contract and the
// registry that dispatches to it.
//
// # Overview
//
// Every node type in the catalog (pkg/catalog) has a corresponding
// NodeExecutor registered here. The scheduler (pkg/scheduler) looks up the
// executor for each node it visits in topological order, builds an
// ExecutionContext from gathered inputs/controls and the current tick's
// timing, and calls Execute.
//
// # Strategy Pattern
//
// Registry replaces a large switch over node types with a map of
// strategies, so new executor families (pkg/executors/...) register
// themselves at startup without the registry or scheduler knowing their
// concrete type.
//
// # Synchronous and asynchronous executors
//
// The source material this contract is drawn from distinguishes
// synchronous and asynchronous executors, awaiting the latter serially so
// GPU/audio contexts are never touched by two nodes at once. In Go, a
// blocking Execute call models both: the scheduler does not start the next
// node until the current call returns, so there is exactly one executor
// signature rather than two.
//
// # Subflow plumbing
//
// SubflowContext and ScopeContext extend ExecutionContext for the subflow
// family only (pkg/executors/subflow): a subflow-instance node recurses
// into the scheduler via RunSubflow, and the inner flow's
// subflow-input/subflow-output nodes reach the resulting scoped store via
// SubflowScope. Every other family's ExecutionContext satisfies neither
// interface, so a plain type assertion is enough to detect the
// subflow-capable case without widening the core interface.
package executor
