package executor

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/types"
)

// SubflowScopeStore is a scoped key-value store a running subflow instance
// uses to pass values between its instance executor and the inner flow's
// subflow-input/subflow-output nodes. Keys are "input:{portId}" and
// "output:{portId}" by convention; the store itself is opaque to callers.
type SubflowScopeStore interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// SubflowContext is implemented by the scheduler's ExecutionContext for a
// subflow-instance node. Other executor families never need it; the
// subflow executor type-asserts its ExecutionContext for this rather than
// every family carrying subflow plumbing in the core interface.
type SubflowContext interface {
	ExecutionContext

	// RunSubflow expands flow inline under the given instance id: it runs
	// a fresh topological pass over flow's nodes, reading each
	// subflow-input from inputs and collecting each subflow-output into
	// the returned mapping. instanceID scopes nested subflow-input/output
	// lookups so sibling and nested instances never see each other's
	// values.
	RunSubflow(ctx context.Context, flow types.Flow, instanceID string, inputs map[string]any) (map[string]any, error)
}

// ScopeContext is implemented by the scheduler's ExecutionContext for
// subflow-input and subflow-output nodes, letting them reach the scoped
// store deposited by the enclosing subflow-instance executor.
type ScopeContext interface {
	ExecutionContext

	// SubflowScope returns the scoped store and instance id for the
	// subflow this node is currently running inside. ok is false when the
	// node is running at the top level, outside of any subflow.
	SubflowScope() (scope SubflowScopeStore, instanceID string, ok bool)
}
