package timing

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// sequencerState is the current playhead of a step-sequencer node.
type sequencerState struct {
	index int
}

// sequencerExecutor advances through its "steps" control (a sequence of
// arbitrary values) one step per rising edge of "clock", wrapping at the
// end. A rising edge of "reset" snaps the playhead back to step 0 without
// consuming a clock. Emits the current step's "value" and "index" every
// tick, plus "trigger" on the tick the playhead advanced.
type sequencerExecutor struct {
	state *resource.Table[sequencerState]
	edges *resource.Table[bool]
}

func newSequencerExecutor() *sequencerExecutor {
	return &sequencerExecutor{
		state: resource.NewTable[sequencerState]("timing.sequencer.state", nil),
		edges: resource.NewTable[bool]("timing.sequencer.edges", nil),
	}
}

func (e *sequencerExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	nodeID := ectx.NodeID()

	clockRaw, _ := inputOrControl(ectx, "clock")
	resetRaw, _ := inputOrControl(ectx, "reset")
	clockEdge := risingEdge(e.edges, nodeID+":clock", clockRaw)
	resetEdge := risingEdge(e.edges, nodeID+":reset", resetRaw)

	steps := sequencerSteps(ectx)
	if len(steps) == 0 {
		return types.Outputs{}, nil
	}

	st, ok := e.state.Get(nodeID)
	if !ok {
		st = sequencerState{}
	}

	advanced := false
	switch {
	case resetEdge:
		st.index = 0
	case clockEdge:
		st.index = (st.index + 1) % len(steps)
		advanced = true
	}
	if st.index >= len(steps) {
		// Steps control shrank under the playhead.
		st.index = 0
	}
	e.state.Set(nodeID, st)

	outputs := types.Outputs{
		"value": steps[st.index],
		"index": float64(st.index),
	}
	if advanced {
		outputs["trigger"] = true
	}
	return outputs, nil
}

func (e *sequencerExecutor) NodeType() types.NodeType  { return "step-sequencer" }
func (e *sequencerExecutor) Validate(types.Node) error { return nil }

// sequencerSteps reads the "steps" control as an ordered sequence. A
// numeric "length" control with no explicit steps yields 0..length-1, the
// bare-counter configuration.
func sequencerSteps(ectx executor.ExecutionContext) []any {
	if raw, ok := ectx.Control("steps"); ok {
		switch s := raw.(type) {
		case []any:
			return s
		case []float64:
			out := make([]any, len(s))
			for i, v := range s {
				out[i] = v
			}
			return out
		}
	}
	if n := conv.Int(mustControlValue(ectx, "length"), 0); n > 0 {
		out := make([]any, n)
		for i := range out {
			out[i] = float64(i)
		}
		return out
	}
	return nil
}

func mustControlValue(ectx executor.ExecutionContext, id string) any {
	v, _ := ectx.Control(id)
	return v
}
