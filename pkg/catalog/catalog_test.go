package catalog

import (
	"testing"

	"github.com/nodeforge/dataflow/pkg/types"
)

func TestRegisterAndGet(t *testing.T) {
	c := New()
	def := types.NodeDefinition{NodeType: "lfo", Category: "input", Label: "LFO"}
	if err := c.Register(def); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	got, ok := c.Get("lfo")
	if !ok {
		t.Fatal("Get(\"lfo\") should be found")
	}
	if got.Label != "LFO" {
		t.Errorf("Label = %q, want LFO", got.Label)
	}
}

func TestRegisterEmptyNodeTypeFails(t *testing.T) {
	c := New()
	if err := c.Register(types.NodeDefinition{}); err == nil {
		t.Error("Register with empty NodeType should fail")
	}
}

func TestRegisterOverridesExisting(t *testing.T) {
	c := New()
	c.MustRegister(types.NodeDefinition{NodeType: "add", Label: "v1"})
	c.MustRegister(types.NodeDefinition{NodeType: "add", Label: "v2"})
	got, _ := c.Get("add")
	if got.Label != "v2" {
		t.Errorf("Label after re-register = %q, want v2", got.Label)
	}
}

func TestByCategory(t *testing.T) {
	c := New()
	c.MustRegister(types.NodeDefinition{NodeType: "add", Category: "math"})
	c.MustRegister(types.NodeDefinition{NodeType: "subtract", Category: "math"})
	c.MustRegister(types.NodeDefinition{NodeType: "lfo", Category: "input"})

	math := c.ByCategory("math")
	if len(math) != 2 {
		t.Errorf("ByCategory(\"math\") returned %d defs, want 2", len(math))
	}
}

func TestFilteredByLabelAndCategory(t *testing.T) {
	c := New()
	c.MustRegister(types.NodeDefinition{NodeType: "websocket", Category: "connectivity", Label: "WebSocket"})
	c.MustRegister(types.NodeDefinition{NodeType: "mqtt", Category: "connectivity", Label: "MQTT"})
	c.MustRegister(types.NodeDefinition{NodeType: "add", Category: "math", Label: "Add"})

	results := c.FilteredBy("sock", "")
	if len(results) != 1 || results[0].NodeType != "websocket" {
		t.Errorf("FilteredBy(\"sock\") = %v, want just websocket", results)
	}

	results = c.FilteredBy("", "math")
	if len(results) != 1 || results[0].NodeType != "add" {
		t.Errorf("FilteredBy(category=math) = %v, want just add", results)
	}
}

func TestAllReturnsEveryDefinition(t *testing.T) {
	c := New()
	c.MustRegister(types.NodeDefinition{NodeType: "a"})
	c.MustRegister(types.NodeDefinition{NodeType: "b"})
	if len(c.All()) != 2 {
		t.Errorf("All() returned %d defs, want 2", len(c.All()))
	}
}
