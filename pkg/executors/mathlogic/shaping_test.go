package mathlogic

import (
	"context"
	"math"
	"testing"

	"github.com/nodeforge/dataflow/pkg/resource"
)

func TestLerpExecutor(t *testing.T) {
	e := &lerpExecutor{}
	ectx := &fakeContext{inputs: map[string]any{"a": 0.0, "b": 10.0, "t": 0.5}}
	out, _ := e.Execute(context.Background(), ectx)
	if out["result"] != 5.0 {
		t.Errorf("lerp = %v, want 5", out["result"])
	}
}

func TestRemapExecutorZeroSpan(t *testing.T) {
	e := &remapExecutor{}
	ectx := &fakeContext{inputs: map[string]any{
		"value": 5.0, "inMin": 3.0, "inMax": 3.0, "outMin": 1.0, "outMax": 2.0,
	}}
	out, _ := e.Execute(context.Background(), ectx)
	if out["result"] != 1.0 {
		t.Errorf("remap zero-span = %v, want outMin 1", out["result"])
	}
}

func TestWrapExecutorNegative(t *testing.T) {
	e := &wrapExecutor{}
	ectx := &fakeContext{inputs: map[string]any{"value": -0.25, "min": 0.0, "max": 1.0}}
	out, _ := e.Execute(context.Background(), ectx)
	if math.Abs(out["result"].(float64)-0.75) > 1e-9 {
		t.Errorf("wrap(-0.25, 0, 1) = %v, want 0.75", out["result"])
	}
}

func TestQuantizeExecutor(t *testing.T) {
	e := &quantizeExecutor{}
	ectx := &fakeContext{inputs: map[string]any{"value": 7.4, "step": 2.0}}
	out, _ := e.Execute(context.Background(), ectx)
	if out["result"] != 8.0 {
		t.Errorf("quantize(7.4, step=2) = %v, want 8", out["result"])
	}
}

func TestSmoothstepHoldsPrevAcrossCalls(t *testing.T) {
	e := &smoothstepExecutor{prev: resource.NewTable[float64]("smoothstep", nil)}
	ectx := &fakeContext{
		nodeID: "n1",
		inputs: map[string]any{"value": 1.0, "edge0": 0.0, "edge1": 1.0, "smoothing": 0.5},
	}
	first, _ := e.Execute(context.Background(), ectx)
	second, _ := e.Execute(context.Background(), ectx)
	// First call has no prev to blend with, so smoothing has no effect yet;
	// the second call blends toward the held result and must differ unless
	// already converged.
	if first["result"] != 1.0 {
		t.Fatalf("first smoothstep(1,0,1) = %v, want 1", first["result"])
	}
	if second["result"] == 0 {
		t.Fatalf("second smoothstep result unexpectedly zero")
	}
}

func TestStepExecutor(t *testing.T) {
	e := &stepExecutor{}
	below := &fakeContext{inputs: map[string]any{"value": 0.4, "edge": 0.5}}
	above := &fakeContext{inputs: map[string]any{"value": 0.6, "edge": 0.5}}
	outBelow, _ := e.Execute(context.Background(), below)
	outAbove, _ := e.Execute(context.Background(), above)
	if outBelow["result"] != 0.0 {
		t.Errorf("step(0.4, edge=0.5) = %v, want 0", outBelow["result"])
	}
	if outAbove["result"] != 1.0 {
		t.Errorf("step(0.6, edge=0.5) = %v, want 1", outAbove["result"])
	}
}
