package timing

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// startExecutor fires a single trigger output on the rising edge of its
// "start" input/control, the timing family's analogue of the
// constant-family trigger node but reserved for gating other timing
// nodes' clocks.
type startExecutor struct {
	edges *resource.Table[bool]
}

func newStartExecutor() *startExecutor {
	return &startExecutor{edges: resource.NewTable[bool]("timing.start", nil)}
}

func (e *startExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	raw, _ := inputOrControl(ectx, "start")
	if risingEdge(e.edges, ectx.NodeID(), raw) {
		return types.Outputs{"trigger": true}, nil
	}
	return types.Outputs{}, nil
}

func (e *startExecutor) NodeType() types.NodeType  { return "start" }
func (e *startExecutor) Validate(types.Node) error { return nil }
