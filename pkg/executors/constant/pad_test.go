package constant

import (
	"context"
	"testing"
)

func TestKnobClampsToRange(t *testing.T) {
	e := &KnobExecutor{}
	out, _ := e.Execute(context.Background(), &fakeContext{
		nodeID:   "k1",
		controls: map[string]any{"value": 150.0, "min": 0.0, "max": 100.0},
	})
	if out["value"] != 100.0 {
		t.Errorf("value = %v, want 100 (clamped)", out["value"])
	}
}

func TestXYPadEmitsBothAxes(t *testing.T) {
	e := &XYPadExecutor{}
	out, _ := e.Execute(context.Background(), &fakeContext{
		nodeID:   "p1",
		controls: map[string]any{"x": 0.25, "y": 0.75},
	})
	if out["x"] != 0.25 || out["y"] != 0.75 {
		t.Errorf("pad = (%v, %v), want (0.25, 0.75)", out["x"], out["y"])
	}
}

func TestXYPadClampsEachAxis(t *testing.T) {
	e := &XYPadExecutor{}
	out, _ := e.Execute(context.Background(), &fakeContext{
		nodeID:   "p2",
		controls: map[string]any{"x": -0.5, "y": 1.5, "min": 0.0, "max": 1.0},
	})
	if out["x"] != 0.0 {
		t.Errorf("x = %v, want 0 (clamped to min)", out["x"])
	}
	if out["y"] != 1.0 {
		t.Errorf("y = %v, want 1 (clamped to max)", out["y"])
	}
}
