// Package clasp implements the seven CLASP executors (clasp-connection,
// clasp-subscribe, clasp-set, clasp-emit, clasp-get, clasp-stream,
// clasp-bundle), each thin-wrapping pkg/connection.ClaspAdapter's
// set/emit/get/subscribe/stream/bundle surface.
// Grounded on the connectivity family's resolve-and-connect pattern, with
// clasp-subscribe's one-subscription-per-(connectionId,pattern) rule
// mirroring connectivity's mqtt-subscribe executor.
package clasp

import (
	"context"
	"fmt"

	"github.com/nodeforge/dataflow/pkg/connection"
	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// Register constructs every CLASP executor, registers their resource
// tables with rm, and adds them to reg. mgr resolves connectionId
// controls to live ClaspAdapters.
func Register(reg *executor.Registry, rm *resource.Manager, mgr *connection.Manager) {
	conn := newConnectionExecutor(mgr)
	reg.MustRegister(conn)

	sub := newSubscribeExecutor(mgr)
	rm.Register(sub.subs)
	rm.Register(sub.last)
	reg.MustRegister(sub)

	reg.MustRegister(newSetExecutor(mgr))
	reg.MustRegister(newEmitExecutor(mgr))
	reg.MustRegister(newGetExecutor(mgr))

	stream := newStreamExecutor(mgr)
	rm.Register(stream.subs)
	rm.Register(stream.last)
	reg.MustRegister(stream)

	reg.MustRegister(newBundleExecutor(mgr))
}

// resolveClasp resolves control("connectionId") to a live *ClaspAdapter,
// auto-connecting it if needed, and reports a clear error if the
// connection exists but isn't a CLASP adapter.
func resolveClasp(ctx context.Context, ectx executor.ExecutionContext, mgr *connection.Manager) (*connection.ClaspAdapter, error) {
	idRaw, _ := ectx.Control("connectionId")
	id := conv.String(idRaw)
	if id == "" {
		return nil, fmt.Errorf("clasp: missing connectionId control")
	}

	adapter, err := mgr.Get(id)
	if err != nil {
		return nil, fmt.Errorf("clasp: resolve %s: %w", id, err)
	}
	claspAdapter, ok := adapter.(*connection.ClaspAdapter)
	if !ok {
		return nil, fmt.Errorf("clasp: connection %s is not a clasp adapter", id)
	}
	if claspAdapter.State() != connection.StateConnected {
		if err := claspAdapter.Connect(ctx); err != nil {
			return nil, fmt.Errorf("clasp: connect %s: %w", id, err)
		}
	}
	return claspAdapter, nil
}

// connectionExecutor establishes/reports a CLASP connection without
// performing any operation on it; downstream clasp-* nodes resolve the
// same connectionId independently, matching how the connectivity family
// has no single "connect" node either.
type connectionExecutor struct {
	mgr *connection.Manager
}

func newConnectionExecutor(mgr *connection.Manager) *connectionExecutor {
	return &connectionExecutor{mgr: mgr}
}

func (e *connectionExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	adapter, err := resolveClasp(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"connected": false, "error": err.Error()}, nil
	}
	return types.Outputs{"connected": adapter.State() == connection.StateConnected}, nil
}

func (e *connectionExecutor) NodeType() types.NodeType  { return "clasp-connection" }
func (e *connectionExecutor) Validate(types.Node) error { return nil }

// setExecutor sends a "set" operation for control("pattern") whenever its
// "value" input fires.
type setExecutor struct {
	mgr *connection.Manager
}

func newSetExecutor(mgr *connection.Manager) *setExecutor { return &setExecutor{mgr: mgr} }

func (e *setExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	value, ok := ectx.Input("value")
	if !ok {
		return types.Outputs{}, nil
	}
	adapter, err := resolveClasp(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	pattern, _ := ectx.Control("pattern")
	if err := adapter.SetParam(conv.String(pattern), value); err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"sent": true}, nil
}

func (e *setExecutor) NodeType() types.NodeType  { return "clasp-set" }
func (e *setExecutor) Validate(types.Node) error { return nil }

// emitExecutor sends a one-shot "emit" operation, bypassing any parameter
// cache.
type emitExecutor struct {
	mgr *connection.Manager
}

func newEmitExecutor(mgr *connection.Manager) *emitExecutor { return &emitExecutor{mgr: mgr} }

func (e *emitExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	value, ok := ectx.Input("value")
	if !ok {
		return types.Outputs{}, nil
	}
	adapter, err := resolveClasp(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	pattern, _ := ectx.Control("pattern")
	if err := adapter.Emit(conv.String(pattern), value); err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"sent": true}, nil
}

func (e *emitExecutor) NodeType() types.NodeType  { return "clasp-emit" }
func (e *emitExecutor) Validate(types.Node) error { return nil }

// getExecutor returns the last-known cached value for control("pattern"),
// issuing a remote "get" request (whose response arrives asynchronously)
// when nothing is cached yet.
type getExecutor struct {
	mgr *connection.Manager
}

func newGetExecutor(mgr *connection.Manager) *getExecutor { return &getExecutor{mgr: mgr} }

func (e *getExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	adapter, err := resolveClasp(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	pattern, _ := ectx.Control("pattern")
	value, ok := adapter.GetParam(conv.String(pattern))
	if !ok {
		return types.Outputs{}, nil
	}
	return types.Outputs{"value": value}, nil
}

func (e *getExecutor) NodeType() types.NodeType  { return "clasp-get" }
func (e *getExecutor) Validate(types.Node) error { return nil }

// bundleExecutor sends every (pattern, value) pair in its "values" input
// (expected to be a map[string]any) atomically as a single bundle op.
type bundleExecutor struct {
	mgr *connection.Manager
}

func newBundleExecutor(mgr *connection.Manager) *bundleExecutor { return &bundleExecutor{mgr: mgr} }

func (e *bundleExecutor) Execute(ctx context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	raw, ok := ectx.Input("values")
	if !ok {
		return types.Outputs{}, nil
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return types.Outputs{"error": "clasp-bundle: values input must be a map"}, nil
	}
	adapter, err := resolveClasp(ctx, ectx, e.mgr)
	if err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	if err := adapter.SendBundle(values); err != nil {
		return types.Outputs{"error": err.Error()}, nil
	}
	return types.Outputs{"sent": true}, nil
}

func (e *bundleExecutor) NodeType() types.NodeType  { return "clasp-bundle" }
func (e *bundleExecutor) Validate(types.Node) error { return nil }
