package mathlogic

import (
	"context"
	"math"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// lerpExecutor linearly interpolates between controls/inputs "a" and "b"
// by factor "t" in [0, 1].
type lerpExecutor struct{}

func (e *lerpExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	a := numericOperand(ectx, "a", 0)
	b := numericOperand(ectx, "b", 1)
	t := numericOperand(ectx, "t", 0.5)
	return types.Outputs{"result": a + (b-a)*t}, nil
}
func (e *lerpExecutor) NodeType() types.NodeType  { return "lerp" }
func (e *lerpExecutor) Validate(types.Node) error { return nil }

// remapExecutor linearly maps "value" from [inMin, inMax] to [outMin,
// outMax]. A zero-width input range returns outMin, matching the
// divide-by-zero-returns-0 convention elsewhere in this family.
type remapExecutor struct{}

func (e *remapExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v := numericOperand(ectx, "value", 0)
	inMin := numericOperand(ectx, "inMin", 0)
	inMax := numericOperand(ectx, "inMax", 1)
	outMin := numericOperand(ectx, "outMin", 0)
	outMax := numericOperand(ectx, "outMax", 1)

	span := inMax - inMin
	if span == 0 {
		return types.Outputs{"result": outMin}, nil
	}
	t := (v - inMin) / span
	return types.Outputs{"result": outMin + t*(outMax-outMin)}, nil
}
func (e *remapExecutor) NodeType() types.NodeType  { return "remap" }
func (e *remapExecutor) Validate(types.Node) error { return nil }

// wrapExecutor wraps "value" into [min, max) modularly (handles negative
// values correctly, unlike Go's math.Mod).
type wrapExecutor struct{}

func (e *wrapExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v := numericOperand(ectx, "value", 0)
	min := numericOperand(ectx, "min", 0)
	max := numericOperand(ectx, "max", 1)

	span := max - min
	if span == 0 {
		return types.Outputs{"result": min}, nil
	}
	wrapped := math.Mod(v-min, span)
	if wrapped < 0 {
		wrapped += span
	}
	return types.Outputs{"result": min + wrapped}, nil
}
func (e *wrapExecutor) NodeType() types.NodeType  { return "wrap" }
func (e *wrapExecutor) Validate(types.Node) error { return nil }

// quantizeExecutor snaps "value" to the nearest multiple of "step".
type quantizeExecutor struct{}

func (e *quantizeExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v := numericOperand(ectx, "value", 0)
	step := numericOperand(ectx, "step", 1)
	if step == 0 {
		return types.Outputs{"result": v}, nil
	}
	return types.Outputs{"result": math.Round(v/step) * step}, nil
}
func (e *quantizeExecutor) NodeType() types.NodeType  { return "quantize" }
func (e *quantizeExecutor) Validate(types.Node) error { return nil }

// stepExecutor is a Heaviside step: 1 when "value" >= "edge", else 0.
type stepExecutor struct{}

func (e *stepExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v := numericOperand(ectx, "value", 0)
	edge := numericOperand(ectx, "edge", 0)
	if v >= edge {
		return types.Outputs{"result": 1.0}, nil
	}
	return types.Outputs{"result": 0.0}, nil
}
func (e *stepExecutor) NodeType() types.NodeType  { return "step" }
func (e *stepExecutor) Validate(types.Node) error { return nil }

// smoothstepExecutor is the classic 3t^2-2t^3 Hermite smoothing between
// "edge0" and "edge1", with an optional exponential-moving-average
// smoothing pass over its own previous result. Node.Data controls are
// scheduler-owned and not writable by an executor's Outputs, so the
// previous-result slot is kept the way the trigger family keeps its
// prev-pressed flag: a resource.Table[float64] keyed by nodeId, disposed
// with the node.
type smoothstepExecutor struct {
	prev *resource.Table[float64]
}

func (e *smoothstepExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v := numericOperand(ectx, "value", 0)
	edge0 := numericOperand(ectx, "edge0", 0)
	edge1 := numericOperand(ectx, "edge1", 1)
	smoothing := numericOperand(ectx, "smoothing", 0)

	span := edge1 - edge0
	var t float64
	if span != 0 {
		t = clamp01((v - edge0) / span)
	}
	result := t * t * (3 - 2*t)

	if smoothing > 0 {
		if prev, ok := e.prev.Get(ectx.NodeID()); ok {
			result = prev*smoothing + result*(1-smoothing)
		}
	}
	e.prev.Set(ectx.NodeID(), result)

	return types.Outputs{"result": result}, nil
}
func (e *smoothstepExecutor) NodeType() types.NodeType  { return "smoothstep" }
func (e *smoothstepExecutor) Validate(types.Node) error { return nil }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
