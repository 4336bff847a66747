package mathlogic

import (
	"context"
	"math"
	"testing"
)

func TestTrigOperations(t *testing.T) {
	e := &trigExecutor{}

	tests := []struct {
		op    string
		value float64
		want  float64
	}{
		{"sin", math.Pi / 2, 1},
		{"cos", 0, 1},
		{"atan2", 1, math.Pi / 4}, // value2 defaults to 1
		{"degrees", math.Pi, 180},
		{"radians", 180, math.Pi},
	}
	for _, tt := range tests {
		out, _ := e.Execute(context.Background(), &fakeContext{
			nodeID:   "t1",
			inputs:   map[string]any{"value": tt.value},
			controls: map[string]any{"operation": tt.op},
		})
		got := out["result"].(float64)
		if math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("%s(%v) = %v, want %v", tt.op, tt.value, got, tt.want)
		}
	}
}

func TestTrigUnknownOperationDefaultsToSin(t *testing.T) {
	e := &trigExecutor{}
	out, _ := e.Execute(context.Background(), &fakeContext{
		nodeID:   "t2",
		inputs:   map[string]any{"value": math.Pi / 2},
		controls: map[string]any{"operation": "bogus"},
	})
	if got := out["result"].(float64); math.Abs(got-1) > 1e-10 {
		t.Errorf("result = %v, want sin fallback 1", got)
	}
}

func TestModuloDivideByZeroReturnsZero(t *testing.T) {
	e := &moduloExecutor{}
	out, _ := e.Execute(context.Background(), &fakeContext{
		nodeID: "m1",
		inputs: map[string]any{"a": 7.0, "b": 0.0},
	})
	if out["result"] != 0.0 {
		t.Errorf("7 %% 0 = %v, want 0", out["result"])
	}

	out, _ = e.Execute(context.Background(), &fakeContext{
		nodeID: "m1",
		inputs: map[string]any{"a": 7.0, "b": 3.0},
	})
	if out["result"] != 1.0 {
		t.Errorf("7 %% 3 = %v, want 1", out["result"])
	}
}

func TestVectorDotAndLength(t *testing.T) {
	e := &vectorExecutor{}

	out, _ := e.Execute(context.Background(), &fakeContext{
		nodeID:   "v1",
		inputs:   map[string]any{"a": []float64{1, 2, 3}, "b": []float64{4, 5, 6}},
		controls: map[string]any{"operation": "dot"},
	})
	if out["result"] != 32.0 {
		t.Errorf("dot = %v, want 32", out["result"])
	}

	out, _ = e.Execute(context.Background(), &fakeContext{
		nodeID:   "v1",
		inputs:   map[string]any{"a": []float64{3, 4}},
		controls: map[string]any{"operation": "length"},
	})
	if out["result"] != 5.0 {
		t.Errorf("length = %v, want 5", out["result"])
	}
}

func TestVectorAddIsDefaultAndTruncates(t *testing.T) {
	e := &vectorExecutor{}
	out, _ := e.Execute(context.Background(), &fakeContext{
		nodeID: "v2",
		inputs: map[string]any{"a": []any{1.0, 2.0, 3.0}, "b": []float64{10, 20}},
	})
	got := out["result"].([]float64)
	if len(got) != 2 || got[0] != 11 || got[1] != 22 {
		t.Errorf("add = %v, want [11 22]", got)
	}
}

func TestVectorNormalizeZeroVector(t *testing.T) {
	e := &vectorExecutor{}
	out, _ := e.Execute(context.Background(), &fakeContext{
		nodeID:   "v3",
		inputs:   map[string]any{"a": []float64{0, 0}},
		controls: map[string]any{"operation": "normalize"},
	})
	got := out["result"].([]float64)
	if got[0] != 0 || got[1] != 0 {
		t.Errorf("normalize(0) = %v, want zero vector, not NaN", got)
	}
}
