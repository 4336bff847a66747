package connectivity

import (
	"context"
	"testing"

	"github.com/nodeforge/dataflow/pkg/connection"
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

type fakeContext struct {
	nodeID   string
	inputs   map[string]any
	controls map[string]any
}

func (f *fakeContext) NodeID() string                         { return f.nodeID }
func (f *fakeContext) Input(p string) (any, bool)             { v, ok := f.inputs[p]; return v, ok }
func (f *fakeContext) Inputs(string) []any                    { return nil }
func (f *fakeContext) Control(c string) (any, bool)           { v, ok := f.controls[c]; return v, ok }
func (f *fakeContext) GetInputNode(string) (types.Node, bool) { return types.Node{}, false }
func (f *fakeContext) DeltaTime() float64                     { return 1.0 / 60 }
func (f *fakeContext) TotalTime() float64                     { return 0 }
func (f *fakeContext) FrameCount() int64                      { return 0 }

var _ executor.ExecutionContext = (*fakeContext)(nil)

// fakeAdapter is a minimal connection.Adapter: Connect flips it to
// connected, Send records what it was given and, if a reply is set,
// fans it out to any registered MessageHandler before returning.
type fakeAdapter struct {
	id        string
	connected bool
	sent      []any
	reply     any
	onMessage connection.MessageHandler
}

func (a *fakeAdapter) ID() string                { return a.id }
func (a *fakeAdapter) Protocol() string           { return "fake" }
func (a *fakeAdapter) State() connection.State {
	if a.connected {
		return connection.StateConnected
	}
	return connection.StateIdle
}
func (a *fakeAdapter) Context() connection.MachineContext { return connection.MachineContext{} }
func (a *fakeAdapter) Connect(context.Context) error {
	a.connected = true
	return nil
}
func (a *fakeAdapter) Disconnect(context.Context) error { a.connected = false; return nil }
func (a *fakeAdapter) Send(_ context.Context, data any, _ connection.SendOptions) error {
	a.sent = append(a.sent, data)
	if a.reply != nil && a.onMessage != nil {
		a.onMessage("", a.reply)
	}
	return nil
}
func (a *fakeAdapter) OnStatusChange(connection.StatusHandler) {}
func (a *fakeAdapter) OnMessage(h connection.MessageHandler)   { a.onMessage = h }
func (a *fakeAdapter) OnError(connection.ErrorHandler)         {}
func (a *fakeAdapter) Dispose(context.Context)                 {}

func newTestManager(adapter *fakeAdapter) *connection.Manager {
	mgr := connection.NewManager(nil, nil)
	mgr.RegisterType("fake", func(cfg connection.Config) (connection.Adapter, error) {
		return adapter, nil
	})
	mgr.AddConnection(connection.Config{ID: adapter.id, Protocol: "fake"})
	return mgr
}

func TestHTTPRequestExecutorSendsAndCachesResponse(t *testing.T) {
	adapter := &fakeAdapter{id: "c1", reply: map[string]any{"ok": true}}
	mgr := newTestManager(adapter)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "n1",
		controls: map[string]any{"connectionId": "c1", "method": "GET"},
		inputs:   map[string]any{"path": "/status"},
	}

	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "http-request"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["sent"] != true {
		t.Errorf("sent = %v, want true", out["sent"])
	}
	if len(adapter.sent) != 1 {
		t.Fatalf("adapter recorded %d sends, want 1", len(adapter.sent))
	}
	req, ok := adapter.sent[0].(connection.HTTPRequest)
	if !ok || req.Path != "/status" || req.Method != "GET" {
		t.Errorf("sent request = %+v", adapter.sent[0])
	}
	if resp, ok := out["response"]; !ok {
		t.Error("expected a cached response output")
	} else if m, ok := resp.(map[string]any); !ok || m["ok"] != true {
		t.Errorf("response = %v, want {ok:true}", resp)
	}
}

func TestHTTPRequestExecutorSkipsWithoutPath(t *testing.T) {
	adapter := &fakeAdapter{id: "c1"}
	mgr := newTestManager(adapter)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{nodeID: "n1", controls: map[string]any{"connectionId": "c1"}}
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "http-request"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("out = %v, want empty without a path", out)
	}
	if len(adapter.sent) != 0 {
		t.Error("adapter should not have been sent anything")
	}
}

func TestWebSocketSendExecutorForwardsValue(t *testing.T) {
	adapter := &fakeAdapter{id: "ws1"}
	mgr := newTestManager(adapter)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "n1",
		controls: map[string]any{"connectionId": "ws1"},
		inputs:   map[string]any{"value": "hello"},
	}
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "websocket-send"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["sent"] != true {
		t.Errorf("sent = %v, want true", out["sent"])
	}
	if len(adapter.sent) != 1 || adapter.sent[0] != "hello" {
		t.Errorf("adapter.sent = %v, want [hello]", adapter.sent)
	}
}

func TestMQTTPublishExecutorRequiresTopic(t *testing.T) {
	adapter := &fakeAdapter{id: "mq1"}
	mgr := newTestManager(adapter)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "n1",
		controls: map[string]any{"connectionId": "mq1"},
		inputs:   map[string]any{"value": 1.0},
	}
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "mqtt-publish"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["error"] == nil {
		t.Error("expected an error output for a missing topic control")
	}
	if len(adapter.sent) != 0 {
		t.Error("adapter should not have been sent anything without a topic")
	}
}

func TestMQTTPublishExecutorSendsWithTopic(t *testing.T) {
	adapter := &fakeAdapter{id: "mq1"}
	mgr := newTestManager(adapter)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "n1",
		controls: map[string]any{"connectionId": "mq1", "topic": "sensors/temp"},
		inputs:   map[string]any{"value": 21.5},
	}
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "mqtt-publish"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["sent"] != true {
		t.Errorf("sent = %v, want true", out["sent"])
	}
	if len(adapter.sent) != 1 || adapter.sent[0] != 21.5 {
		t.Errorf("adapter.sent = %v, want [21.5]", adapter.sent)
	}
}

func TestMQTTSubscribeExecutorFiltersByTopic(t *testing.T) {
	adapter := &fakeAdapter{id: "mq2"}
	mgr := newTestManager(adapter)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "n1",
		controls: map[string]any{"connectionId": "mq2", "topic": "sensors/temp"},
	}

	// First tick installs the handler but no message has arrived yet.
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "mqtt-subscribe"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, ok := out["value"]; ok {
		t.Error("expected no value output before any message arrives")
	}

	// A message on a different topic is ignored.
	adapter.onMessage("other/topic", "nope")
	out, _ = reg.Execute(context.Background(), ectx, types.Node{NodeType: "mqtt-subscribe"})
	if _, ok := out["value"]; ok {
		t.Error("message on a non-matching topic should not surface")
	}

	// A message on the subscribed topic is cached and re-emitted.
	adapter.onMessage("sensors/temp", 98.6)
	out, err = reg.Execute(context.Background(), ectx, types.Node{NodeType: "mqtt-subscribe"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["value"] != 98.6 {
		t.Errorf("value = %v, want 98.6", out["value"])
	}

	// It should keep re-emitting the cached value on later ticks too.
	out, _ = reg.Execute(context.Background(), ectx, types.Node{NodeType: "mqtt-subscribe"})
	if out["value"] != 98.6 {
		t.Errorf("cached value on next tick = %v, want 98.6", out["value"])
	}
}

func TestResolveAndConnectFailsForUnknownConnection(t *testing.T) {
	mgr := connection.NewManager(nil, nil)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "n1",
		controls: map[string]any{"connectionId": "missing"},
		inputs:   map[string]any{"value": "x"},
	}
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "websocket-send"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["error"] == nil {
		t.Error("expected an error output for an unregistered connection id")
	}
}
