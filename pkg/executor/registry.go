package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/nodeforge/dataflow/pkg/types"
)

// Registry maps node type to executor. Registration is additive and later
// registrations for the same type override earlier ones, matching the
// catalog's "live reload" expectation: re-registering the same node type
// with a fixed executor must not require restarting the engine.
type Registry struct {
	mu        sync.RWMutex
	executors map[types.NodeType]NodeExecutor
}

// NewRegistry creates an empty executor registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[types.NodeType]NodeExecutor),
	}
}

// Register adds or replaces the executor for its NodeType().
func (r *Registry) Register(exec NodeExecutor) error {
	if exec == nil {
		return ErrNilExecutor
	}
	nodeType := exec.NodeType()
	if nodeType == "" {
		return ErrEmptyNodeType
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[nodeType] = exec
	return nil
}

// MustRegister registers an executor and panics on error. Used during
// startup wiring, where a bad registration is a programmer error.
func (r *Registry) MustRegister(exec NodeExecutor) {
	if err := r.Register(exec); err != nil {
		panic(err)
	}
}

// Execute dispatches to the executor registered for node.NodeType.
func (r *Registry) Execute(ctx context.Context, ectx ExecutionContext, node types.Node) (types.Outputs, error) {
	exec := r.get(node.NodeType)
	if exec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoExecutor, node.NodeType)
	}
	return exec.Execute(ctx, ectx)
}

// Validate validates a node using its registered executor.
func (r *Registry) Validate(node types.Node) error {
	exec := r.get(node.NodeType)
	if exec == nil {
		return fmt.Errorf("%w: %s", ErrNoExecutor, node.NodeType)
	}
	return exec.Validate(node)
}

// GetExecutor returns the executor for a node type, or nil.
func (r *Registry) GetExecutor(nodeType types.NodeType) NodeExecutor {
	return r.get(nodeType)
}

func (r *Registry) get(nodeType types.NodeType) NodeExecutor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executors[nodeType]
}

// ListRegisteredTypes returns all registered node types, in no particular
// order.
func (r *Registry) ListRegisteredTypes() []types.NodeType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.NodeType, 0, len(r.executors))
	for nodeType := range r.executors {
		out = append(out, nodeType)
	}
	return out
}
