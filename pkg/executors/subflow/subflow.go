// Package subflow implements the three subflow executors (subflow-input,
// subflow-output, subflow): subflow-input reads from
// the scoped context the enclosing instance deposited, subflow-output
// writes into it, and subflow is the instance executor that expands a
// registered nested flow inline for one tick. Grounded on
// pkg/executor.SubflowContext/ScopeContext (the scheduler's
// nodeExecutionContext implements both) and pkg/scheduler/subflow.go's
// runSubflow, which this package only ever reaches through that
// interface, never directly.
package subflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/types"
)

// Registry maps a subflow id (the "subflowId" control on a subflow
// instance node) to its Flow definition, for the subflow executor to hand
// to SubflowContext.RunSubflow. Distinct from the engine's own subflow
// registration (graph.Graph.RegisterSubflow), which exists for topology
// validation; this one is how the executor itself resolves the id to a
// types.Flow value, since ExecutionContext exposes no graph access.
type Registry struct {
	mu    sync.RWMutex
	flows map[string]types.Flow
}

// NewRegistry creates an empty subflow definition registry.
func NewRegistry() *Registry {
	return &Registry{flows: make(map[string]types.Flow)}
}

// Add registers f under f.ID, replacing any prior definition with the
// same id.
func (r *Registry) Add(f types.Flow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[f.ID] = f
}

// Get returns the subflow definition for id, if registered.
func (r *Registry) Get(id string) (types.Flow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.flows[id]
	return f, ok
}

// Register constructs every subflow-family executor against flows and
// adds them to reg. Subflow-family executors hold no resource.Table
// state of their own; their cross-tick state (the scoped store) is
// managed entirely by the scheduler.
func Register(reg *executor.Registry, flows *Registry) {
	reg.MustRegister(newInputExecutor())
	reg.MustRegister(newOutputExecutor())
	reg.MustRegister(newInstanceExecutor(flows))
}

// inputExecutor reads control("portId") from the scoped store the
// enclosing subflow instance deposited, emitting control("default") (or
// nothing) when run outside any subflow context.
type inputExecutor struct{}

func newInputExecutor() *inputExecutor { return &inputExecutor{} }

func (e *inputExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	portRaw, _ := ectx.Control("portId")
	portID, _ := portRaw.(string)

	sc, ok := ectx.(executor.ScopeContext)
	if !ok {
		return e.defaultOutputs(ectx), nil
	}
	scope, _, ok := sc.SubflowScope()
	if !ok {
		return e.defaultOutputs(ectx), nil
	}

	v, ok := scope.Get("input:" + portID)
	if !ok {
		return e.defaultOutputs(ectx), nil
	}
	return types.Outputs{"value": v}, nil
}

func (e *inputExecutor) defaultOutputs(ectx executor.ExecutionContext) types.Outputs {
	if def, ok := ectx.Control("default"); ok {
		return types.Outputs{"value": def}
	}
	return types.Outputs{}
}

func (e *inputExecutor) NodeType() types.NodeType  { return "subflow-input" }
func (e *inputExecutor) Validate(types.Node) error { return nil }

// outputExecutor writes its "value" input into the scoped store under
// control("portId"), for the enclosing subflow instance to collect.
type outputExecutor struct{}

func newOutputExecutor() *outputExecutor { return &outputExecutor{} }

func (e *outputExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	value, hasValue := ectx.Input("value")
	if !hasValue {
		return types.Outputs{}, nil
	}

	portRaw, _ := ectx.Control("portId")
	portID, _ := portRaw.(string)
	if portID == "" {
		return types.Outputs{}, nil
	}

	sc, ok := ectx.(executor.ScopeContext)
	if !ok {
		return types.Outputs{}, nil
	}
	scope, _, ok := sc.SubflowScope()
	if !ok {
		return types.Outputs{}, nil
	}
	scope.Set("output:"+portID, value)
	return types.Outputs{}, nil
}

func (e *outputExecutor) NodeType() types.NodeType  { return "subflow-output" }
func (e *outputExecutor) Validate(types.Node) error { return nil }

// instanceExecutor expands a registered subflow inline for one tick: it
// gathers every wired input port's value, runs RunSubflow, and returns
// the collected output:{portId} values as its own outputs. Nested
// subflows work unchanged since each instance gets its own instance id
// (the node id, which is unique within its enclosing flow at any nesting
// depth) and RunSubflow itself tracks nesting depth against the engine's
// configured limit.
type instanceExecutor struct {
	flows *Registry
}

func newInstanceExecutor(flows *Registry) *instanceExecutor {
	return &instanceExecutor{flows: flows}
}

func (e *instanceExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	sfc, ok := ectx.(executor.SubflowContext)
	if !ok {
		return nil, fmt.Errorf("subflow: execution context does not support RunSubflow")
	}

	idRaw, _ := ectx.Control("subflowId")
	subflowID, _ := idRaw.(string)
	if subflowID == "" {
		return nil, fmt.Errorf("subflow: missing subflowId control")
	}

	flow, ok := e.flows.Get(subflowID)
	if !ok {
		return nil, fmt.Errorf("subflow: unknown subflowId %q", subflowID)
	}

	inputs := make(map[string]any, len(flow.SubflowInputs))
	for _, portID := range flow.SubflowInputs {
		if v, ok := ectx.Input(portID); ok {
			inputs[portID] = v
		}
	}

	results, err := sfc.RunSubflow(ctx, flow, ectx.NodeID(), inputs)
	if err != nil {
		return nil, fmt.Errorf("subflow: run %q: %w", subflowID, err)
	}

	outputs := make(types.Outputs, len(results))
	for portID, v := range results {
		outputs[portID] = v
	}
	return outputs, nil
}

func (e *instanceExecutor) NodeType() types.NodeType  { return "subflow" }
func (e *instanceExecutor) Validate(types.Node) error { return nil }
