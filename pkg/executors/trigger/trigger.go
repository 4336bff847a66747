// Package trigger implements the rising-edge "trigger" node: a
// previous-pressed flag keyed by nodeId makes the node fire only on a
// false->true transition of its "value" control, and emit nothing (no
// output slot set) otherwise, letting downstream one-shot consumers
// distinguish "didn't fire" from "fired false".
// Grounded on the resource.Table[T] pattern (pkg/resource/restable.go)
// applied to a bool instead of a handle.
package trigger

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/resource"
	"github.com/nodeforge/dataflow/pkg/types"
)

// NodeTypeTrigger implements rising-edge detection over a boolean control.
const NodeTypeTrigger types.NodeType = "trigger"

// Executor implements the "trigger" node type.
type Executor struct {
	prev *resource.Table[bool]
}

// New creates a trigger executor with its own prev-pressed table.
func New() *Executor {
	return &Executor{prev: resource.NewTable[bool]("trigger", nil)}
}

// Execute fires (emits outputs["value"] = true) only when the "value"
// control transitioned false->true since the previous tick for this
// nodeId; otherwise it returns an empty Outputs so the port reads
// undefined for this tick.
func (e *Executor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	raw, _ := ectx.Control("value")
	pressed := conv.Bool(raw)

	wasPressed, _ := e.prev.Get(ectx.NodeID())
	e.prev.Set(ectx.NodeID(), pressed)

	if pressed && !wasPressed {
		return types.Outputs{"value": true}, nil
	}
	return types.Outputs{}, nil
}

// NodeType implements executor.NodeExecutor.
func (e *Executor) NodeType() types.NodeType { return NodeTypeTrigger }

// Validate implements executor.NodeExecutor.
func (e *Executor) Validate(types.Node) error { return nil }

// Register constructs a trigger executor, registers its prev-pressed
// table with rm for dispose-on-remove/dispose-all coverage, and adds it
// to reg.
func Register(reg *executor.Registry, rm *resource.Manager) {
	e := New()
	rm.Register(e.prev)
	reg.MustRegister(e)
}
