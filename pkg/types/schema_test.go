package types

import "testing"

func TestNodeDefinitionPortLookup(t *testing.T) {
	def := NodeDefinition{
		NodeType: "add",
		Inputs:   []PortDefinition{{ID: "a", Type: DataTypeNumber}, {ID: "b", Type: DataTypeNumber}},
		Outputs:  []PortDefinition{{ID: "result", Type: DataTypeNumber}},
	}
	if _, ok := def.InputPort("a"); !ok {
		t.Error("InputPort(\"a\") should be found")
	}
	if _, ok := def.InputPort("missing"); ok {
		t.Error("InputPort(\"missing\") should not be found")
	}
	if _, ok := def.OutputPort("result"); !ok {
		t.Error("OutputPort(\"result\") should be found")
	}
}

func TestNodeDefinitionSupportsPlatform(t *testing.T) {
	unrestricted := NodeDefinition{NodeType: "constant"}
	if !unrestricted.SupportsPlatform(PlatformElectron) {
		t.Error("a definition with no declared platforms should support all platforms")
	}

	webOnly := NodeDefinition{NodeType: "websocket", Platforms: []Platform{PlatformWeb}}
	if !webOnly.SupportsPlatform(PlatformWeb) {
		t.Error("web-only definition should support web")
	}
	if webOnly.SupportsPlatform(PlatformElectron) {
		t.Error("web-only definition should not support electron")
	}
}

func TestIsPrivateKey(t *testing.T) {
	if !IsPrivateKey("_dynamicInputs") {
		t.Error("_dynamicInputs should be private")
	}
	if IsPrivateKey("value") {
		t.Error("value should not be private")
	}
	if IsPrivateKey("") {
		t.Error("empty key should not be private")
	}
}

func TestNodeControl(t *testing.T) {
	n := Node{Data: map[string]any{"value": 3.0}}
	if v, ok := n.Control("value"); !ok || v != 3.0 {
		t.Errorf("Control(\"value\") = (%v, %v), want (3, true)", v, ok)
	}
	empty := Node{}
	if _, ok := empty.Control("value"); ok {
		t.Error("Control on nil Data should report false")
	}
}

func TestFlowNodeByID(t *testing.T) {
	f := Flow{Nodes: []Node{{ID: "a"}, {ID: "b"}}}
	if _, ok := f.NodeByID("b"); !ok {
		t.Error("NodeByID(\"b\") should be found")
	}
	if _, ok := f.NodeByID("c"); ok {
		t.Error("NodeByID(\"c\") should not be found")
	}
}
