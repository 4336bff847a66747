package constant

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/types"
)

// NodeTypeTime emits the scheduler's totalTime every tick.
const NodeTypeTime types.NodeType = "time"

// TimeExecutor implements the "time" node type: a read-only window onto
// the tick's totalTime/deltaTime/frameCount, for graphs that want to
// drive their own time math instead of using lfo.
type TimeExecutor struct{}

// Execute returns totalTime, deltaTime, and frameCount as outputs.
func (e *TimeExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	return types.Outputs{
		"totalTime":  ectx.TotalTime(),
		"deltaTime":  ectx.DeltaTime(),
		"frameCount": float64(ectx.FrameCount()),
	}, nil
}

// NodeType implements executor.NodeExecutor.
func (e *TimeExecutor) NodeType() types.NodeType { return NodeTypeTime }

// Validate implements executor.NodeExecutor.
func (e *TimeExecutor) Validate(types.Node) error { return nil }
