package timing

import (
	"context"
	"math"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// metronomeExecutor derives beat/bar/beatNum/barNum/phase from
// control("bpm") and control("subdivision"). Swing
// delays odd sub-beats by (swing/100)*0.5 of a sub-beat; swing is clamped
// to [0, 100]. It is otherwise stateless (a pure function of totalTime),
// except for rising-edge detection on "beat"/"bar" outputs, which require
// remembering the previous sub-beat/bar index to know when to fire.
type metronomeExecutor struct {
	edges *resource.Table[metronomeState]
}

type metronomeState struct {
	prevSubBeat int
	prevBar     int
}

func newMetronomeExecutor() *metronomeExecutor {
	return &metronomeExecutor{edges: resource.NewTable[metronomeState]("timing.metronome", nil)}
}

func (e *metronomeExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	bpmRaw, _ := ectx.Control("bpm")
	subdivRaw, _ := ectx.Control("subdivision")
	swingRaw, _ := ectx.Control("swing")

	bpm := conv.Float(bpmRaw, 120)
	if bpm <= 0 {
		bpm = 120
	}
	subdivision := conv.Float(subdivRaw, 1)
	if subdivision <= 0 {
		subdivision = 1
	}
	swing := clamp(conv.Float(swingRaw, 0), 0, 100)

	secondsPerBeat := 60.0 / bpm
	secondsPerSubBeat := secondsPerBeat / subdivision

	now := ectx.TotalTime()
	swingDelay := (swing / 100) * 0.5 * secondsPerSubBeat

	subBeatFloat := now / secondsPerSubBeat
	subBeatIndex := int(math.Floor(subBeatFloat))

	// Odd sub-beats are delayed by swingDelay seconds: shift now back by
	// the delay before recomputing phase/index for odd sub-beats only.
	adjustedNow := now
	if subBeatIndex%2 == 1 {
		adjustedNow -= swingDelay
		subBeatFloat = adjustedNow / secondsPerSubBeat
		subBeatIndex = int(math.Floor(subBeatFloat))
	}

	phase := subBeatFloat - math.Floor(subBeatFloat)
	beatsPerBar := 4 * subdivision // 4/4 time, subdivided
	barIndex := int(math.Floor(float64(subBeatIndex) / beatsPerBar))
	beatNum := subBeatIndex
	barNum := barIndex

	st, _ := e.edges.Get(ectx.NodeID())
	outputs := types.Outputs{
		"phase":   phase,
		"beatNum": float64(beatNum),
		"barNum":  float64(barNum),
	}
	if beatNum != st.prevSubBeat {
		outputs["beat"] = true
	}
	if barNum != st.prevBar {
		outputs["bar"] = true
	}
	e.edges.Set(ectx.NodeID(), metronomeState{prevSubBeat: beatNum, prevBar: barNum})

	return outputs, nil
}

func (e *metronomeExecutor) NodeType() types.NodeType  { return "metronome" }
func (e *metronomeExecutor) Validate(types.Node) error { return nil }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
