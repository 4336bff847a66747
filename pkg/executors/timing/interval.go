package timing

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// intervalState tracks the wall-clock totalTime an interval node last
// fired at, so it can fire again every "seconds" control regardless of
// how deltaTime varies tick to tick.
type intervalState struct {
	lastFire float64
}

// intervalExecutor fires "trigger" every control("seconds") of totalTime.
type intervalExecutor struct {
	state *resource.Table[intervalState]
}

func newIntervalExecutor() *intervalExecutor {
	return &intervalExecutor{state: resource.NewTable[intervalState]("timing.interval", nil)}
}

func (e *intervalExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	seconds, _ := ectx.Control("seconds")
	period := conv.Float(seconds, 1)
	if period <= 0 {
		return types.Outputs{}, nil
	}

	now := ectx.TotalTime()
	st, ok := e.state.Get(ectx.NodeID())
	if !ok {
		e.state.Set(ectx.NodeID(), intervalState{lastFire: now})
		return types.Outputs{}, nil
	}

	if now-st.lastFire >= period {
		st.lastFire = now
		e.state.Set(ectx.NodeID(), st)
		return types.Outputs{"trigger": true}, nil
	}
	return types.Outputs{}, nil
}

func (e *intervalExecutor) NodeType() types.NodeType  { return "interval" }
func (e *intervalExecutor) Validate(types.Node) error { return nil }
