package clasp

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/connection"
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// claspSubscription identifies which (connectionId, pattern) pair a node
// currently has a live CLASP subscription for, plus the handle to tear it
// down when either changes or the node is disposed.
type claspSubscription struct {
	connectionID string
	pattern      string
	unsubscribe  func()
}

// subscribeExecutor installs a pattern subscription on first frame for a
// given (connectionId, pattern) pair and replaces it if either changes,
// re-emitting the last-received value every tick.
type subscribeExecutor struct {
	mgr  *connection.Manager
	subs *resource.Table[claspSubscription]
	last *resource.Table[any]
}

func newSubscribeExecutor(mgr *connection.Manager) *subscribeExecutor {
	return &subscribeExecutor{
		mgr:  mgr,
		subs: resource.NewTable("clasp.subscribe.subs", func(_ string, s claspSubscription) {
			if s.unsubscribe != nil {
				s.unsubscribe()
			}
		}),
		last: resource.NewTable[any]("clasp.subscribe.last", nil),
	}
}

func (e *subscribeExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	connIDRaw, _ := ectx.Control("connectionId")
	patternRaw, _ := ectx.Control("pattern")
	connID := conv.String(connIDRaw)
	pattern := conv.String(patternRaw)

	adapter, err := resolveClasp(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	nodeID := ectx.NodeID()
	current, ok := e.subs.Get(nodeID)
	if !ok || current.connectionID != connID || current.pattern != pattern {
		if ok && current.unsubscribe != nil {
			current.unsubscribe()
		}
		unsub, err := adapter.Subscribe(pattern, func(_ string, value any) {
			e.last.Set(nodeID, value)
		})
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		e.subs.Set(nodeID, claspSubscription{connectionID: connID, pattern: pattern, unsubscribe: unsub})
	}

	if v, ok := e.last.Get(nodeID); ok {
		return types.Outputs{"value": v}, nil
	}
	return types.Outputs{}, nil
}

func (e *subscribeExecutor) NodeType() types.NodeType  { return "clasp-subscribe" }
func (e *subscribeExecutor) Validate(types.Node) error { return nil }

// streamExecutor behaves like subscribeExecutor but is wired to the
// "stream" operation class (continuous, high-rate parameter updates
// rather than discrete set/emit events); the CLASP wire protocol
// (pkg/connection/clasp.go) treats set/emit/stream identically on the
// inbound path, so this executor reuses the same Subscribe call and
// differs only in node type / intent.
type streamExecutor struct {
	mgr  *connection.Manager
	subs *resource.Table[claspSubscription]
	last *resource.Table[any]
}

func newStreamExecutor(mgr *connection.Manager) *streamExecutor {
	return &streamExecutor{
		mgr: mgr,
		subs: resource.NewTable("clasp.stream.subs", func(_ string, s claspSubscription) {
			if s.unsubscribe != nil {
				s.unsubscribe()
			}
		}),
		last: resource.NewTable[any]("clasp.stream.last", nil),
	}
}

func (e *streamExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	connIDRaw, _ := ectx.Control("connectionId")
	patternRaw, _ := ectx.Control("pattern")
	connID := conv.String(connIDRaw)
	pattern := conv.String(patternRaw)

	adapter, err := resolveClasp(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}

	nodeID := ectx.NodeID()
	current, ok := e.subs.Get(nodeID)
	if !ok || current.connectionID != connID || current.pattern != pattern {
		if ok && current.unsubscribe != nil {
			current.unsubscribe()
		}
		unsub, err := adapter.Subscribe(pattern, func(_ string, value any) {
			e.last.Set(nodeID, value)
		})
		if err != nil {
			return types.Outputs{"error": err.Error()}, nil
		}
		e.subs.Set(nodeID, claspSubscription{connectionID: connID, pattern: pattern, unsubscribe: unsub})
	}

	if v, ok := e.last.Get(nodeID); ok {
		return types.Outputs{"value": v}, nil
	}
	return types.Outputs{}, nil
}

func (e *streamExecutor) NodeType() types.NodeType  { return "clasp-stream" }
func (e *streamExecutor) Validate(types.Node) error { return nil }
