// Package constant implements the constant/input executor family: nodes
// that emit a value derived solely from their own controls (and, for
// time-based ones, from the tick's totalTime), never from upstream
// inputs. Each is a simple control-read-and-return executor.
package constant

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/types"
)

// NodeTypeConstant emits its "value" control unchanged on every tick.
const NodeTypeConstant types.NodeType = "constant"

// ConstantExecutor implements the "constant" node type.
type ConstantExecutor struct{}

// Execute returns the node's "value" control as its "value" output.
func (e *ConstantExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v, _ := ectx.Control("value")
	return types.Outputs{"value": v}, nil
}

// NodeType implements executor.NodeExecutor.
func (e *ConstantExecutor) NodeType() types.NodeType { return NodeTypeConstant }

// Validate implements executor.NodeExecutor; any control configuration,
// including an absent "value", is acceptable (it emits nil).
func (e *ConstantExecutor) Validate(types.Node) error { return nil }

// NodeTypeSlider emits a numeric "value" control clamped to its declared
// min/max range. The range itself is editor-only presentation metadata
// (it lives in the control's Props),
// but the executor still clamps defensively since a malformed document
// could carry an out-of-range stored value.
const NodeTypeSlider types.NodeType = "slider"

// SliderExecutor implements the "slider" node type.
type SliderExecutor struct{}

// Execute returns the slider's numeric value, raised to the "min" control
// and lowered to the "max" control when each is present.
func (e *SliderExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v := conv.Float(mustControl(ectx, "value"), 0)
	return types.Outputs{"value": clampToRange(ectx, v)}, nil
}

// NodeType implements executor.NodeExecutor.
func (e *SliderExecutor) NodeType() types.NodeType { return NodeTypeSlider }

// Validate implements executor.NodeExecutor.
func (e *SliderExecutor) Validate(types.Node) error { return nil }

func mustControl(ectx executor.ExecutionContext, id string) any {
	v, _ := ectx.Control(id)
	return v
}

// Register constructs every constant/input-family executor and adds them
// to reg. This family holds no cross-tick state, so there is nothing to
// register with a resource.Manager.
func Register(reg *executor.Registry) {
	reg.MustRegister(&ConstantExecutor{})
	reg.MustRegister(&SliderExecutor{})
	reg.MustRegister(&KnobExecutor{})
	reg.MustRegister(&XYPadExecutor{})
	reg.MustRegister(&TimeExecutor{})
	reg.MustRegister(&LFOExecutor{})
}
