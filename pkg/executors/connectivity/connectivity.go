// Package connectivity implements the connectivity executor family
// (http-request, websocket-send, mqtt-publish, mqtt-subscribe), each a
// thin wrapper around pkg/connection.Manager: resolve the adapter by
// connectionId, lazily auto-connect, invoke a
// protocol operation, and emit either a synchronous acknowledgement or an
// asynchronous last-received value cached by nodeId. Grounded on the
// connection subsystem's HTTP adapter for the connection-pooled-client
// shape, generalized here to the full connection.Manager/Adapter
// abstraction so the same pattern covers HTTP, WebSocket, and MQTT.
package connectivity

import (
	"context"
	"fmt"

	"github.com/nodeforge/dataflow/pkg/connection"
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// Register constructs the connectivity-family executors, registers their
// resource tables with rm, and adds them to reg. mgr resolves connection
// ids to live adapters.
func Register(reg *executor.Registry, rm *resource.Manager, mgr *connection.Manager) {
	httpReq := newHTTPRequestExecutor(mgr)
	rm.Register(httpReq.lastResponse)
	rm.Register(httpReq.subscribed)
	reg.MustRegister(httpReq)

	wsSend := newWebSocketSendExecutor(mgr)
	reg.MustRegister(wsSend)

	mqttPub := newMQTTPublishExecutor(mgr)
	reg.MustRegister(mqttPub)

	mqttSub := newMQTTSubscribeExecutor(mgr)
	rm.Register(mqttSub.subs)
	rm.Register(mqttSub.last)
	reg.MustRegister(mqttSub)
}

// resolveAndConnect looks up the adapter named by control "connectionId",
// auto-connecting it if it isn't already connected. Every connectivity
// executor shares this resolution step.
func resolveAndConnect(ctx context.Context, ectx executor.ExecutionContext, mgr *connection.Manager) (connection.Adapter, error) {
	idRaw, _ := ectx.Control("connectionId")
	id := conv.String(idRaw)
	if id == "" {
		return nil, fmt.Errorf("connectivity: missing connectionId control")
	}

	adapter, err := mgr.Get(id)
	if err != nil {
		return nil, fmt.Errorf("connectivity: resolve %s: %w", id, err)
	}
	if adapter.State() != connection.StateConnected {
		if err := adapter.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connectivity: connect %s: %w", id, err)
		}
	}
	return adapter, nil
}

// httpRequestExecutor issues one HTTP request per tick it has a "path"
// input or control, caching the last response body per nodeId so it
// persists across ticks that don't re-fire. The adapter's doSend calls
// emitMessage synchronously before Send returns, so subscribing here
// once per node is enough to observe every response.
type httpRequestExecutor struct {
	mgr          *connection.Manager
	lastResponse *resource.Table[any]
	subscribed   *resource.Table[bool]
}

func newHTTPRequestExecutor(mgr *connection.Manager) *httpRequestExecutor {
	return &httpRequestExecutor{
		mgr:          mgr,
		lastResponse: resource.NewTable[any]("connectivity.http-request.response", nil),
		subscribed:   resource.NewTable[bool]("connectivity.http-request.subscribed", nil),
	}
}

func (e *httpRequestExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	path, _ := inputOrControl(ectx, "path")
	if conv.String(path) == "" {
		return types.Outputs{}, nil
	}

	adapter, err := resolveAndConnect(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	nodeID := ectx.NodeID()
	if _, ok := e.subscribed.Get(nodeID); !ok {
		adapter.OnMessage(func(_ string, payload any) {
			e.lastResponse.Set(nodeID, payload)
		})
		e.subscribed.Set(nodeID, true)
	}

	method, _ := ectx.Control("method")
	body, _ := ectx.Input("body")

	req := connection.HTTPRequest{
		Method: conv.String(method),
		Path:   conv.String(path),
		Body:   body,
	}
	if err := adapter.Send(ctx, req, connection.SendOptions{}); err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	outputs := types.Outputs{"sent": true}
	if resp, ok := e.lastResponse.Get(nodeID); ok {
		outputs["response"] = resp
	}
	return outputs, nil
}

func (e *httpRequestExecutor) NodeType() types.NodeType  { return "http-request" }
func (e *httpRequestExecutor) Validate(types.Node) error { return nil }

// websocketSendExecutor forwards its "value" input as-is to the adapter's
// Send, which JSON-encodes anything that isn't already a []byte/string.
type websocketSendExecutor struct {
	mgr *connection.Manager
}

func newWebSocketSendExecutor(mgr *connection.Manager) *websocketSendExecutor {
	return &websocketSendExecutor{mgr: mgr}
}

func (e *websocketSendExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	value, ok := ectx.Input("value")
	if !ok {
		return types.Outputs{}, nil
	}

	adapter, err := resolveAndConnect(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	if err := adapter.Send(ctx, value, connection.SendOptions{}); err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"sent": true}, nil
}

func (e *websocketSendExecutor) NodeType() types.NodeType  { return "websocket-send" }
func (e *websocketSendExecutor) Validate(types.Node) error { return nil }

// mqttPublishExecutor publishes its "value" input to control "topic" at
// QoS set by the connection's own configuration.
type mqttPublishExecutor struct {
	mgr *connection.Manager
}

func newMQTTPublishExecutor(mgr *connection.Manager) *mqttPublishExecutor {
	return &mqttPublishExecutor{mgr: mgr}
}

func (e *mqttPublishExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	value, ok := ectx.Input("value")
	if !ok {
		return types.Outputs{}, nil
	}

	adapter, err := resolveAndConnect(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	topicRaw, _ := ectx.Control("topic")
	topic := conv.String(topicRaw)
	if topic == "" {
		return types.Outputs{"error": "mqtt-publish: missing topic control"}, nil
	}

	if err := adapter.Send(ctx, value, connection.SendOptions{Topic: topic}); err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"sent": true}, nil
}

func (e *mqttPublishExecutor) NodeType() types.NodeType  { return "mqtt-publish" }
func (e *mqttPublishExecutor) Validate(types.Node) error { return nil }

// mqttSubscribeExecutor installs a handler on first frame for a given
// (connectionId, topic) pair and replaces it if either changes,
// re-emitting the last-received payload for that topic every tick.
type mqttSubscribeExecutor struct {
	mgr  *connection.Manager
	subs *resource.Table[subscription]
	last *resource.Table[any]
}

type subscription struct {
	connectionID string
	topic        string
}

func newMQTTSubscribeExecutor(mgr *connection.Manager) *mqttSubscribeExecutor {
	return &mqttSubscribeExecutor{
		mgr:  mgr,
		subs: resource.NewTable[subscription]("connectivity.mqtt-subscribe.subs", nil),
		last: resource.NewTable[any]("connectivity.mqtt-subscribe.last", nil),
	}
}

func (e *mqttSubscribeExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	connIDRaw, _ := ectx.Control("connectionId")
	topicRaw, _ := ectx.Control("topic")
	connID := conv.String(connIDRaw)
	topic := conv.String(topicRaw)

	adapter, err := resolveAndConnect(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	nodeID := ectx.NodeID()
	want := subscription{connectionID: connID, topic: topic}
	if current, ok := e.subs.Get(nodeID); !ok || current != want {
		adapter.OnMessage(func(msgTopic string, payload any) {
			// Adapters keep every handler, so one installed for an earlier
			// (connectionId, topic) pair goes inert once it is replaced.
			if cur, ok := e.subs.Get(nodeID); !ok || cur != want {
				return
			}
			if topic == "" || msgTopic == topic {
				e.last.Set(nodeID, payload)
			}
		})
		e.subs.Set(nodeID, want)
	}

	if v, ok := e.last.Get(nodeID); ok {
		return types.Outputs{"value": v}, nil
	}
	return types.Outputs{}, nil
}

func (e *mqttSubscribeExecutor) NodeType() types.NodeType  { return "mqtt-subscribe" }
func (e *mqttSubscribeExecutor) Validate(types.Node) error { return nil }

func inputOrControl(ectx executor.ExecutionContext, port string) (any, bool) {
	if v, ok := ectx.Input(port); ok {
		return v, true
	}
	return ectx.Control(port)
}
