package timing

import (
	"context"
	"testing"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/types"
)

type fakeContext struct {
	nodeID   string
	controls map[string]any
	total    float64
}

func (f *fakeContext) NodeID() string                        { return f.nodeID }
func (f *fakeContext) Input(string) (any, bool)              { return nil, false }
func (f *fakeContext) Inputs(string) []any                   { return nil }
func (f *fakeContext) Control(c string) (any, bool)          { v, ok := f.controls[c]; return v, ok }
func (f *fakeContext) GetInputNode(string) (types.Node, bool) { return types.Node{}, false }
func (f *fakeContext) DeltaTime() float64                    { return 1.0 / 60 }
func (f *fakeContext) TotalTime() float64                    { return f.total }
func (f *fakeContext) FrameCount() int64                     { return 0 }

var _ executor.ExecutionContext = (*fakeContext)(nil)

func TestMetronomeClampsSwing(t *testing.T) {
	e := newMetronomeExecutor()
	ectx := &fakeContext{nodeID: "m1", total: 0.1, controls: map[string]any{"bpm": 120.0, "swing": 250.0}}
	// Should not panic or produce an out-of-range phase despite an
	// out-of-range swing value; clamp(250, 0, 100) = 100.
	out, err := e.Execute(context.Background(), ectx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	phase := out["phase"].(float64)
	if phase < 0 || phase >= 1 {
		t.Errorf("phase = %v, want in [0, 1)", phase)
	}
}

func TestMetronomeBeatFiresOnSubBeatChange(t *testing.T) {
	e := newMetronomeExecutor()
	ectx1 := &fakeContext{nodeID: "m1", total: 0.0, controls: map[string]any{"bpm": 120.0}}
	e.Execute(context.Background(), ectx1)

	// secondsPerBeat at 120bpm = 0.5s; advance well past one full beat.
	ectx2 := &fakeContext{nodeID: "m1", total: 0.6, controls: map[string]any{"bpm": 120.0}}
	out2, _ := e.Execute(context.Background(), ectx2)
	if _, fired := out2["beat"]; !fired {
		t.Error("expected beat to fire after crossing a sub-beat boundary")
	}
}

func TestMetronomeDefaultsToOneTwentyBPMWhenInvalid(t *testing.T) {
	e := newMetronomeExecutor()
	ectx := &fakeContext{nodeID: "m1", total: 1.0, controls: map[string]any{"bpm": 0.0}}
	out, err := e.Execute(context.Background(), ectx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["phase"] == nil {
		t.Error("expected a phase output even with invalid bpm")
	}
}
