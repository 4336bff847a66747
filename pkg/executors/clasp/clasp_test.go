package clasp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nodeforge/dataflow/pkg/connection"
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/state"
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

// claspEchoServer is a minimal CLASP session: it echoes every "set"/"emit"
// message straight back (as the real session would upon accepting the
// operation). It keeps no cached values and sends nothing in reply to
// "subscribe".
func claspEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg map[string]any
			if json.Unmarshal(data, &msg) != nil {
				continue
			}
			switch msg["op"] {
			case "set", "emit", "bundle":
				_ = conn.WriteMessage(websocket.TextMessage, data)
			}
		}
	}))
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func newTestClaspManager(t *testing.T, serverURL string) (*connection.Manager, string) {
	t.Helper()
	mgr := connection.NewManager(nil, nil)
	cache := state.New()
	mgr.RegisterType("clasp", func(cfg connection.Config) (connection.Adapter, error) {
		return connection.NewClaspAdapter(cfg, connection.ReconnectPolicy{Enabled: false}, cache)
	})
	const id = "session-1"
	if _, err := mgr.AddConnection(connection.Config{
		ID:       id,
		Protocol: "clasp",
		Params:   map[string]any{"url": wsURL(serverURL)},
	}); err != nil {
		t.Fatalf("AddConnection() error = %v", err)
	}
	return mgr, id
}

func TestClaspSetAndSubscribeRoundTrip(t *testing.T) {
	srv := claspEchoServer(t)
	defer srv.Close()

	mgr, connID := newTestClaspManager(t, srv.URL)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	subCtx := &fakeContext{
		nodeID:   "sub1",
		controls: map[string]any{"connectionId": connID, "pattern": "/robot/x"},
	}
	if _, err := reg.Execute(context.Background(), subCtx, types.Node{NodeType: "clasp-subscribe"}); err != nil {
		t.Fatalf("clasp-subscribe Execute() error = %v", err)
	}

	setCtx := &fakeContext{
		nodeID:   "set1",
		controls: map[string]any{"connectionId": connID, "pattern": "/robot/x"},
		inputs:   map[string]any{"value": 1.5},
	}
	out, err := reg.Execute(context.Background(), setCtx, types.Node{NodeType: "clasp-set"})
	if err != nil {
		t.Fatalf("clasp-set Execute() error = %v", err)
	}
	if out["sent"] != true {
		t.Errorf("clasp-set sent = %v, want true", out["sent"])
	}

	deadline := time.Now().Add(time.Second)
	var subOut types.Outputs
	for time.Now().Before(deadline) {
		subOut, _ = reg.Execute(context.Background(), subCtx, types.Node{NodeType: "clasp-subscribe"})
		if subOut["value"] != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if subOut["value"] != 1.5 {
		t.Fatalf("subscribed value = %v, want 1.5 once the echo arrives", subOut["value"])
	}
}

func TestClaspGetReturnsCachedValueAfterSet(t *testing.T) {
	srv := claspEchoServer(t)
	defer srv.Close()

	mgr, connID := newTestClaspManager(t, srv.URL)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	setCtx := &fakeContext{
		nodeID:   "set1",
		controls: map[string]any{"connectionId": connID, "pattern": "/robot/y"},
		inputs:   map[string]any{"value": "ready"},
	}
	if _, err := reg.Execute(context.Background(), setCtx, types.Node{NodeType: "clasp-set"}); err != nil {
		t.Fatalf("clasp-set Execute() error = %v", err)
	}

	getCtx := &fakeContext{
		nodeID:   "get1",
		controls: map[string]any{"connectionId": connID, "pattern": "/robot/y"},
	}
	out, err := reg.Execute(context.Background(), getCtx, types.Node{NodeType: "clasp-get"})
	if err != nil {
		t.Fatalf("clasp-get Execute() error = %v", err)
	}
	if out["value"] != "ready" {
		t.Errorf("clasp-get value = %v, want ready (SetParam caches optimistically)", out["value"])
	}
}

func TestClaspBundleSendsAtomically(t *testing.T) {
	srv := claspEchoServer(t)
	defer srv.Close()

	mgr, connID := newTestClaspManager(t, srv.URL)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "bundle1",
		controls: map[string]any{"connectionId": connID},
		inputs:   map[string]any{"values": map[string]any{"/a": 1.0, "/b": 2.0}},
	}
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "clasp-bundle"})
	if err != nil {
		t.Fatalf("clasp-bundle Execute() error = %v", err)
	}
	if out["sent"] != true {
		t.Errorf("sent = %v, want true", out["sent"])
	}
}

func TestClaspBundleRejectsNonMapValues(t *testing.T) {
	srv := claspEchoServer(t)
	defer srv.Close()

	mgr, connID := newTestClaspManager(t, srv.URL)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "bundle1",
		controls: map[string]any{"connectionId": connID},
		inputs:   map[string]any{"values": "not-a-map"},
	}
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "clasp-bundle"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["error"] == nil {
		t.Error("expected an error output for a non-map values input")
	}
}

func TestResolveClaspRejectsUnknownConnection(t *testing.T) {
	mgr := connection.NewManager(nil, nil)
	rm := resource.New()
	reg := executor.NewRegistry()
	Register(reg, rm, mgr)

	ectx := &fakeContext{
		nodeID:   "n1",
		controls: map[string]any{"connectionId": "missing"},
	}
	out, err := reg.Execute(context.Background(), ectx, types.Node{NodeType: "clasp-connection"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out["connected"] != false || out["error"] == nil {
		t.Errorf("out = %v, want connected=false with an error for an unresolved connection", out)
	}
}
