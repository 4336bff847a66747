package constant

import (
	"context"
	"math"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/types"
)

// NodeTypeLFO is a low-frequency oscillator: four waveforms, derived
// purely from totalTime and controls, amplitude-scaled and DC-offset.
const NodeTypeLFO types.NodeType = "lfo"

// LFOExecutor implements the "lfo" node type. It holds no per-node state:
// phase is totalTime*frequency, recomputed fresh every tick, so two ticks
// with the same totalTime produce the same value.
type LFOExecutor struct{}

// Execute computes the waveform's value at the current phase.
func (e *LFOExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	freq, _ := ectx.Control("frequency")
	amp, _ := ectx.Control("amplitude")
	offset, _ := ectx.Control("offset")
	waveform, _ := ectx.Control("waveform")

	frequency := conv.Float(freq, 1)
	amplitude := conv.Float(amp, 1)
	dcOffset := conv.Float(offset, 0)

	phase := ectx.TotalTime() * frequency
	// Fractional phase in [0, 1) for the piecewise waveforms.
	cycle := phase - math.Floor(phase)

	var raw float64
	switch conv.String(waveform) {
	case "square":
		if cycle < 0.5 {
			raw = 1
		} else {
			raw = -1
		}
	case "triangle":
		raw = 4*math.Abs(cycle-0.5) - 1
	case "sawtooth":
		raw = 2*cycle - 1
	default: // "sine" and unrecognized values default to sine
		raw = math.Sin(2 * math.Pi * phase)
	}

	return types.Outputs{"value": raw*amplitude + dcOffset}, nil
}

// NodeType implements executor.NodeExecutor.
func (e *LFOExecutor) NodeType() types.NodeType { return NodeTypeLFO }

// Validate implements executor.NodeExecutor.
func (e *LFOExecutor) Validate(types.Node) error { return nil }
