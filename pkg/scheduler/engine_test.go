package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/types"
)

// constNodeExecutor emits its "value" control as the "out" output.
type constNodeExecutor struct{}

func (constNodeExecutor) NodeType() types.NodeType { return "constant" }
func (constNodeExecutor) Validate(types.Node) error { return nil }
func (constNodeExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v, _ := ectx.Control("value")
	return types.Outputs{"out": v}, nil
}

// addNodeExecutor sums its "a" and "b" inputs.
type addNodeExecutor struct{}

func (addNodeExecutor) NodeType() types.NodeType { return "add" }
func (addNodeExecutor) Validate(types.Node) error { return nil }
func (addNodeExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	a, _ := ectx.Input("a")
	b, _ := ectx.Input("b")
	af, _ := a.(float64)
	bf, _ := b.(float64)
	return types.Outputs{"sum": af + bf}, nil
}

// failingExecutor always errors, to exercise per-node failure capture.
type failingExecutor struct{}

func (failingExecutor) NodeType() types.NodeType { return "always-fail" }
func (failingExecutor) Validate(types.Node) error { return nil }
func (failingExecutor) Execute(context.Context, executor.ExecutionContext) (types.Outputs, error) {
	return nil, errors.New("boom")
}

func newTestRegistry(t *testing.T) *executor.Registry {
	t.Helper()
	reg := executor.NewRegistry()
	reg.MustRegister(constNodeExecutor{})
	reg.MustRegister(addNodeExecutor{})
	reg.MustRegister(failingExecutor{})
	return reg
}

func mathChainNodes() ([]types.Node, []types.Edge) {
	nodes := []types.Node{
		{ID: "c1", NodeType: "constant", Data: map[string]any{"value": 2.0}},
		{ID: "c2", NodeType: "constant", Data: map[string]any{"value": 3.0}},
		{ID: "sum", NodeType: "add", Data: map[string]any{}},
	}
	edges := []types.Edge{
		{ID: "e1", Source: "c1", SourceHandle: "out", Target: "sum", TargetHandle: "a"},
		{ID: "e2", Source: "c2", SourceHandle: "out", Target: "sum", TargetHandle: "b"},
	}
	return nodes, edges
}

func TestEngineTickMathChain(t *testing.T) {
	nodes, edges := mathChainNodes()
	e, err := New("flow-1", nodes, edges, newTestRegistry(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result, err := e.Tick(context.Background(), 1.0/60)
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if result.Skipped {
		t.Fatal("Tick() unexpectedly skipped")
	}

	out, ok := result.Outputs["sum"]
	if !ok {
		t.Fatal("sum node produced no outputs")
	}
	if out["sum"] != 5.0 {
		t.Errorf("sum = %v, want 5.0", out["sum"])
	}

	if e.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", e.FrameCount())
	}
}

func TestEngineTickRequiresStart(t *testing.T) {
	nodes, edges := mathChainNodes()
	e, err := New("flow-1", nodes, edges, newTestRegistry(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := e.Tick(context.Background(), 0.016); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Tick() before Start error = %v, want ErrNotRunning", err)
	}
}

func TestEnginePauseSkipsTick(t *testing.T) {
	nodes, edges := mathChainNodes()
	e, err := New("flow-1", nodes, edges, newTestRegistry(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	result, err := e.Tick(context.Background(), 1.0)
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if !result.Skipped {
		t.Fatal("Tick() while paused should be skipped")
	}
	if e.TotalTime() != 0 {
		t.Errorf("TotalTime() advanced while paused: %v", e.TotalTime())
	}

	if err := e.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if _, err := e.Tick(context.Background(), 1.0); err != nil {
		t.Fatalf("Tick() after Resume error = %v", err)
	}
	if e.TotalTime() != 1.0 {
		t.Errorf("TotalTime() after resumed tick = %v, want 1.0", e.TotalTime())
	}
}

func TestEngineTickDetectsCycle(t *testing.T) {
	nodes := []types.Node{
		{ID: "a", NodeType: "constant", Data: map[string]any{"value": 1.0}},
		{ID: "b", NodeType: "constant", Data: map[string]any{"value": 2.0}},
	}
	edges := []types.Edge{
		{ID: "e1", Source: "a", SourceHandle: "out", Target: "b", TargetHandle: "a"},
		{ID: "e2", Source: "b", SourceHandle: "out", Target: "a", TargetHandle: "a"},
	}

	e, err := New("flow-cycle", nodes, edges, newTestRegistry(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result, err := e.Tick(context.Background(), 0.016)
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if !result.Skipped {
		t.Fatal("Tick() over a cyclic graph should be skipped, not partially run")
	}
	if result.Err == nil {
		t.Fatal("expected a graph validation error on the skipped result")
	}
}

func TestEngineNodeFailureIsCapturedPerNode(t *testing.T) {
	nodes := []types.Node{
		{ID: "ok", NodeType: "constant", Data: map[string]any{"value": 1.0}},
		{ID: "bad", NodeType: "always-fail", Data: map[string]any{}},
	}
	e, err := New("flow-fail", nodes, nil, newTestRegistry(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result, err := e.Tick(context.Background(), 0.016)
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if result.Skipped {
		t.Fatal("a single node failure should not skip the whole tick")
	}
	if _, ok := result.Outputs["ok"]; !ok {
		t.Error("sibling node of a failing node did not run")
	}
	if result.NodeErrors["bad"] == nil {
		t.Error("expected an error recorded against the failing node")
	}
	if e.NodeErrorCount("bad") != 1 {
		t.Errorf("NodeErrorCount(bad) = %d, want 1", e.NodeErrorCount("bad"))
	}
}

func TestEngineStopDisposesResources(t *testing.T) {
	nodes, edges := mathChainNodes()
	e, err := New("flow-1", nodes, edges, newTestRegistry(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	disposed := make(map[string]bool)
	e.Resources().Register(fakeFamily{name: "test", disposeAll: func() { disposed["all"] = true }})

	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !disposed["all"] {
		t.Error("Stop() did not call DisposeAll on registered resource families")
	}
	if e.IsRunning() {
		t.Error("IsRunning() true after Stop()")
	}
}

type fakeFamily struct {
	name       string
	disposeAll func()
}

func (f fakeFamily) Name() string                  { return f.name }
func (f fakeFamily) DisposeNode(string)            {}
func (f fakeFamily) DisposeAll()                   { f.disposeAll() }
func (f fakeFamily) Sweep(map[string]struct{}) int { return 0 }
