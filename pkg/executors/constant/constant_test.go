package constant

import (
	"context"
	"math"
	"testing"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/types"
)

type fakeContext struct {
	nodeID   string
	inputs   map[string]any
	controls map[string]any
	total    float64
}

func (f *fakeContext) NodeID() string                        { return f.nodeID }
func (f *fakeContext) Input(p string) (any, bool)            { v, ok := f.inputs[p]; return v, ok }
func (f *fakeContext) Inputs(string) []any                   { return nil }
func (f *fakeContext) Control(c string) (any, bool)          { v, ok := f.controls[c]; return v, ok }
func (f *fakeContext) GetInputNode(string) (types.Node, bool) { return types.Node{}, false }
func (f *fakeContext) DeltaTime() float64                    { return 1.0 / 60 }
func (f *fakeContext) TotalTime() float64                    { return f.total }
func (f *fakeContext) FrameCount() int64                     { return 0 }

var _ executor.ExecutionContext = (*fakeContext)(nil)

func TestConstantExecutorEmitsValueControl(t *testing.T) {
	e := &ConstantExecutor{}
	ectx := &fakeContext{controls: map[string]any{"value": 42.0}}
	out, err := e.Execute(context.Background(), ectx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["value"] != 42.0 {
		t.Errorf("value = %v, want 42", out["value"])
	}
}

func TestSliderExecutorClamps(t *testing.T) {
	e := &SliderExecutor{}
	ectx := &fakeContext{controls: map[string]any{"value": 15.0, "min": 0.0, "max": 10.0}}
	out, _ := e.Execute(context.Background(), ectx)
	if out["value"] != 10.0 {
		t.Errorf("clamped value = %v, want 10", out["value"])
	}
}

// TestLFOSineAtQuarterSecond:
// lfo(freq=1,amp=1,offset=0,waveform=sine) at totalTime=0.25 yields 1.0.
func TestLFOSineAtQuarterSecond(t *testing.T) {
	e := &LFOExecutor{}
	ectx := &fakeContext{
		total: 0.25,
		controls: map[string]any{
			"frequency": 1.0, "amplitude": 1.0, "offset": 0.0, "waveform": "sine",
		},
	}
	out, err := e.Execute(context.Background(), ectx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	got := out["value"].(float64)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("lfo sine at t=0.25 = %v, want 1.0", got)
	}
}

func TestLFODeterministicAcrossRepeatedTicks(t *testing.T) {
	e := &LFOExecutor{}
	ectx := &fakeContext{
		total: 1.3,
		controls: map[string]any{
			"frequency": 2.0, "amplitude": 0.5, "offset": 0.1, "waveform": "triangle",
		},
	}
	first, _ := e.Execute(context.Background(), ectx)
	second, _ := e.Execute(context.Background(), ectx)
	if first["value"] != second["value"] {
		t.Errorf("lfo not deterministic for identical totalTime: %v != %v", first["value"], second["value"])
	}
}

func TestLFOWaveformsStayWithinAmplitudeRange(t *testing.T) {
	e := &LFOExecutor{}
	for _, wf := range []string{"sine", "square", "triangle", "sawtooth"} {
		ectx := &fakeContext{
			total: 0.77,
			controls: map[string]any{
				"frequency": 3.0, "amplitude": 2.0, "offset": 0.0, "waveform": wf,
			},
		}
		out, _ := e.Execute(context.Background(), ectx)
		v := out["value"].(float64)
		if v < -2.0-1e-9 || v > 2.0+1e-9 {
			t.Errorf("waveform %s out of amplitude range: %v", wf, v)
		}
	}
}

func TestTimeExecutorReportsClockFields(t *testing.T) {
	e := &TimeExecutor{}
	ectx := &fakeContext{total: 4.5}
	out, _ := e.Execute(context.Background(), ectx)
	if out["totalTime"] != 4.5 {
		t.Errorf("totalTime = %v, want 4.5", out["totalTime"])
	}
}
