package ai

import (
	"context"
	"testing"
	"time"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/types"
)

type fakeContext struct {
	nodeID   string
	inputs   map[string]any
	controls map[string]any
}

func (f *fakeContext) NodeID() string                        { return f.nodeID }
func (f *fakeContext) Input(p string) (any, bool)            { v, ok := f.inputs[p]; return v, ok }
func (f *fakeContext) Inputs(string) []any                   { return nil }
func (f *fakeContext) Control(c string) (any, bool)          { v, ok := f.controls[c]; return v, ok }
func (f *fakeContext) GetInputNode(string) (types.Node, bool) { return types.Node{}, false }
func (f *fakeContext) DeltaTime() float64                    { return 1.0 / 60 }
func (f *fakeContext) TotalTime() float64                    { return 0 }
func (f *fakeContext) FrameCount() int64                     { return 0 }

var _ executor.ExecutionContext = (*fakeContext)(nil)

func TestInferExecutorLoadingThenResult(t *testing.T) {
	release := make(chan struct{})
	svc := &FakeService{Handler: func(task, modelID string, input any) (any, error) {
		<-release
		return "done:" + task, nil
	}}
	e := newInferExecutor(svc)
	ectx := &fakeContext{
		nodeID:   "n1",
		inputs:   map[string]any{"input": "hello"},
		controls: map[string]any{"task": "classify", "modelId": "m1"},
	}

	out, err := e.Execute(context.Background(), ectx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["loading"] != true {
		t.Fatalf("first tick loading = %v, want true", out["loading"])
	}

	// Still pending on a subsequent tick with the same input.
	out, _ = e.Execute(context.Background(), ectx)
	if out["loading"] != true {
		t.Fatalf("second tick (still pending) loading = %v, want true", out["loading"])
	}

	close(release)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		out, _ = e.Execute(context.Background(), ectx)
		if out["loading"] == false {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if out["loading"] != false {
		t.Fatal("inference should have settled before deadline")
	}
	if out["result"] != "done:classify" {
		t.Errorf("result = %v, want done:classify", out["result"])
	}
}

func TestInferExecutorErrorSurfaced(t *testing.T) {
	svc := &FakeService{Handler: func(string, string, any) (any, error) {
		return nil, context.DeadlineExceeded
	}}
	e := newInferExecutor(svc)
	ectx := &fakeContext{nodeID: "n1", inputs: map[string]any{"input": "x"}}

	e.Execute(context.Background(), ectx)
	deadline := time.Now().Add(time.Second)
	var out types.Outputs
	for time.Now().Before(deadline) {
		out, _ = e.Execute(context.Background(), ectx)
		if out["loading"] == false {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if out["error"] == nil {
		t.Error("expected error output once the fake inference settles")
	}
}

func TestInferExecutorOnlyRestartsOnInputChange(t *testing.T) {
	calls := 0
	svc := &FakeService{Handler: func(string, string, any) (any, error) {
		calls++
		return "ok", nil
	}}
	e := newInferExecutor(svc)
	ectx := &fakeContext{nodeID: "n1", inputs: map[string]any{"input": "same"}}

	for i := 0; i < 3; i++ {
		e.Execute(context.Background(), ectx)
		time.Sleep(5 * time.Millisecond)
	}
	if calls > 1 {
		t.Errorf("Infer called %d times for an unchanged input, want 1", calls)
	}
}
