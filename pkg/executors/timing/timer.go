package timing

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// timerState tracks when a running timer started, in totalTime seconds.
type timerState struct {
	startedAt float64
	running   bool
	// frozen is the elapsed time captured by the last stop edge.
	frozen float64
}

// timerExecutor counts elapsed time since its "start" input/control last
// rose, resetting on a rising edge of "reset" and stopping (freezing
// elapsed) on a rising edge of "stop". Emits "elapsed" every tick while
// running and "done" once elapsed reaches control("duration") (0 =
// unbounded, never done).
type timerExecutor struct {
	state *resource.Table[timerState]
	edges *resource.Table[bool]
}

func newTimerExecutor() *timerExecutor {
	return &timerExecutor{
		state: resource.NewTable[timerState]("timing.timer.state", nil),
		edges: resource.NewTable[bool]("timing.timer.edges", nil),
	}
}

func (e *timerExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	nodeID := ectx.NodeID()
	now := ectx.TotalTime()

	startRaw, _ := inputOrControl(ectx, "start")
	resetRaw, _ := inputOrControl(ectx, "reset")
	stopRaw, _ := inputOrControl(ectx, "stop")

	startEdge := risingEdge(e.edges, nodeID+":start", startRaw)
	resetEdge := risingEdge(e.edges, nodeID+":reset", resetRaw)
	stopEdge := risingEdge(e.edges, nodeID+":stop", stopRaw)

	st, ok := e.state.Get(nodeID)
	if !ok {
		st = timerState{}
	}

	switch {
	case resetEdge:
		st = timerState{startedAt: now, running: st.running}
	case startEdge:
		st = timerState{startedAt: now, running: true}
	case stopEdge:
		if st.running {
			st.frozen = now - st.startedAt
		}
		st.running = false
	}
	e.state.Set(nodeID, st)

	if !st.running && !ok {
		return types.Outputs{"elapsed": 0.0}, nil
	}

	elapsed := now - st.startedAt
	if !st.running {
		elapsed = st.frozen
	}
	outputs := types.Outputs{"elapsed": elapsed}

	duration, _ := ectx.Control("duration")
	d := conv.Float(duration, 0)
	if d > 0 && elapsed >= d {
		outputs["done"] = true
	}
	return outputs, nil
}

func (e *timerExecutor) NodeType() types.NodeType  { return "timer" }
func (e *timerExecutor) Validate(types.Node) error { return nil }
