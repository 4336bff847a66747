package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/types"
)

var errNotSubflowCapable = errors.New("ExecutionContext does not implement SubflowContext")

// subflowInputExec reads its value from the enclosing subflow instance's
// scoped store under "input:{portId}".
type subflowInputExec struct{}

func (subflowInputExec) NodeType() types.NodeType  { return "subflow-input" }
func (subflowInputExec) Validate(types.Node) error { return nil }
func (subflowInputExec) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	sc, ok := ectx.(executor.ScopeContext)
	if !ok {
		return types.Outputs{"value": nil}, nil
	}
	scope, _, ok := sc.SubflowScope()
	if !ok {
		return types.Outputs{"value": nil}, nil
	}
	portID, _ := ectx.Control("portId")
	v, _ := scope.Get(inputKeyPrefix + portID.(string))
	return types.Outputs{"value": v}, nil
}

// subflowOutputExec writes its "value" input into the enclosing subflow
// instance's scoped store under "output:{portId}".
type subflowOutputExec struct{}

func (subflowOutputExec) NodeType() types.NodeType  { return "subflow-output" }
func (subflowOutputExec) Validate(types.Node) error { return nil }
func (subflowOutputExec) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	sc, ok := ectx.(executor.ScopeContext)
	if !ok {
		return types.Outputs{}, nil
	}
	scope, _, ok := sc.SubflowScope()
	if !ok {
		return types.Outputs{}, nil
	}
	portID, _ := ectx.Control("portId")
	v, _ := ectx.Input("value")
	scope.Set(outputKeyPrefix+portID.(string), v)
	return types.Outputs{}, nil
}

// subflowInstanceExec looks up the referenced flow from its own control
// data, recurses via executor.SubflowContext, and surfaces the result.
type subflowInstanceExec struct {
	flow types.Flow
}

func (e subflowInstanceExec) NodeType() types.NodeType  { return "subflow" }
func (e subflowInstanceExec) Validate(types.Node) error { return nil }
func (e subflowInstanceExec) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	sc, ok := ectx.(executor.SubflowContext)
	if !ok {
		return nil, errNotSubflowCapable
	}
	in, _ := ectx.Input("x")
	results, err := sc.RunSubflow(ctx, e.flow, "instance-"+ectx.NodeID(), map[string]any{"x": in})
	if err != nil {
		return nil, err
	}
	return types.Outputs{"y": results["y"]}, nil
}

func TestEngineRunSubflow(t *testing.T) {
	innerFlow := types.Flow{
		ID:        "double",
		IsSubflow: true,
		Nodes: []types.Node{
			{ID: "in", NodeType: "subflow-input", Data: map[string]any{"portId": "x"}},
			{ID: "double", NodeType: "add", Data: map[string]any{}},
			{ID: "out", NodeType: "subflow-output", Data: map[string]any{"portId": "y"}},
		},
		Edges: []types.Edge{
			{ID: "ie1", Source: "in", SourceHandle: "value", Target: "double", TargetHandle: "a"},
			{ID: "ie2", Source: "in", SourceHandle: "value", Target: "double", TargetHandle: "b"},
			{ID: "ie3", Source: "double", SourceHandle: "sum", Target: "out", TargetHandle: "value"},
		},
	}

	outerNodes := []types.Node{
		{ID: "c1", NodeType: "constant", Data: map[string]any{"value": 4.0}},
		{ID: "inst", NodeType: "subflow", Data: map[string]any{}},
	}
	outerEdges := []types.Edge{
		{ID: "oe1", Source: "c1", SourceHandle: "out", Target: "inst", TargetHandle: "x"},
	}

	reg := newTestRegistry(t)
	reg.MustRegister(subflowInputExec{})
	reg.MustRegister(subflowOutputExec{})
	reg.MustRegister(subflowInstanceExec{flow: innerFlow})

	e, err := New("flow-outer", outerNodes, outerEdges, reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	e.RegisterSubflow(innerFlow)

	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result, err := e.Tick(context.Background(), 0.016)
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if result.Skipped {
		t.Fatal("Tick() unexpectedly skipped")
	}

	out, ok := result.Outputs["inst"]
	if !ok {
		t.Fatal("subflow instance node produced no outputs")
	}
	if out["y"] != 8.0 {
		t.Errorf("subflow result y = %v, want 8.0 (4 doubled)", out["y"])
	}
}
