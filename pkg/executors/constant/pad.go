package constant

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/types"
)

// NodeTypeKnob emits a numeric "value" control clamped to [min, max],
// the rotary variant of the slider. The two stay separate node types
// because the editor renders them with different widgets, but the
// executor behavior is the same clamp-and-emit.
const NodeTypeKnob types.NodeType = "knob"

// KnobExecutor implements the "knob" node type.
type KnobExecutor struct{}

// Execute returns the knob's numeric value, raised to the "min" control
// and lowered to the "max" control when each is present.
func (e *KnobExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v := conv.Float(mustControl(ectx, "value"), 0)
	return types.Outputs{"value": clampToRange(ectx, v)}, nil
}

// NodeType implements executor.NodeExecutor.
func (e *KnobExecutor) NodeType() types.NodeType { return NodeTypeKnob }

// Validate implements executor.NodeExecutor.
func (e *KnobExecutor) Validate(types.Node) error { return nil }

// NodeTypeXYPad emits its "x" and "y" controls as two numeric outputs,
// each clamped by the pad's shared "min"/"max" controls. There is no
// default range: with neither control set the values pass through as-is.
const NodeTypeXYPad types.NodeType = "xy-pad"

// XYPadExecutor implements the "xy-pad" node type.
type XYPadExecutor struct{}

// Execute returns the pad position as separate "x" and "y" outputs.
func (e *XYPadExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	x := conv.Float(mustControl(ectx, "x"), 0)
	y := conv.Float(mustControl(ectx, "y"), 0)
	return types.Outputs{
		"x": clampToRange(ectx, x),
		"y": clampToRange(ectx, y),
	}, nil
}

// NodeType implements executor.NodeExecutor.
func (e *XYPadExecutor) NodeType() types.NodeType { return NodeTypeXYPad }

// Validate implements executor.NodeExecutor.
func (e *XYPadExecutor) Validate(types.Node) error { return nil }

func clampToRange(ectx executor.ExecutionContext, v float64) float64 {
	if minV, ok := ectx.Control("min"); ok {
		if m := conv.Float(minV, v); v < m {
			v = m
		}
	}
	if maxV, ok := ectx.Control("max"); ok {
		if m := conv.Float(maxV, v); v > m {
			v = m
		}
	}
	return v
}
