// Package executor provides the Strategy Pattern implementation for node
// execution: a per-node-type executor contract plus a registry dispatching
// to it. This replaces a large switch statement with pluggable strategies,
// one per node type, each free to hold its own per-node state.
package executor

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/types"
)

// ExecutionContext is what the scheduler hands an executor for one node, one
// tick. Inputs and controls are read-only; the executor must not mutate
// them. Implementations are provided by the scheduler; executors never
// construct one directly.
type ExecutionContext interface {
	// NodeID is the node being executed.
	NodeID() string

	// Input returns the gathered value for an input port, or (nil, false)
	// if no edge produced a value this tick.
	Input(portID string) (any, bool)

	// Inputs returns the ordered sequence of values gathered for a
	// multiple: true port, in edge-insertion order.
	Inputs(portID string) []any

	// Control returns a control value copied from the node's data.
	Control(controlID string) (any, bool)

	// GetInputNode returns the upstream node wired to the given input
	// port, if any edge targets it.
	GetInputNode(portID string) (types.Node, bool)

	// DeltaTime is the interval since the previous tick.
	DeltaTime() float64
	// TotalTime is monotonically increasing wall time since the scheduler
	// started, frozen while paused.
	TotalTime() float64
	// FrameCount is zero-based and increments once per tick.
	FrameCount() int64
}

// NodeExecutor defines the interface for a node-type execution strategy.
// Execute may block; the scheduler awaits each node serially before
// starting the next one, so a blocking call here is how "asynchronous"
// executors from the source material are modeled; there is no separate
// promise type; ctx carries cancellation for stop().
type NodeExecutor interface {
	// Execute runs the node with the given context and returns a fresh
	// outputs mapping. Side effects must be idempotent with respect to
	// (nodeId, control values, inputs).
	Execute(ctx context.Context, ectx ExecutionContext) (types.Outputs, error)

	// NodeType returns the node type this executor handles.
	NodeType() types.NodeType

	// Validate checks whether a node's configuration is acceptable before
	// scheduling attempts to run it.
	Validate(node types.Node) error
}

// DisposeFunc releases per-node state a family of executors keeps in a
// module-scoped map. It is a no-op to call it for a nodeId that was never
// seen.
type DisposeFunc func(nodeID string)
