package mathlogic

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/types"
)

// boolBinaryExecutor implements and/or over "a"/"b".
type boolBinaryExecutor struct {
	nodeType types.NodeType
	op       func(a, b bool) bool
}

func (e *boolBinaryExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	a, _ := inputOrControl(ectx, "a")
	b, _ := inputOrControl(ectx, "b")
	return types.Outputs{"result": e.op(conv.Bool(a), conv.Bool(b))}, nil
}
func (e *boolBinaryExecutor) NodeType() types.NodeType  { return e.nodeType }
func (e *boolBinaryExecutor) Validate(types.Node) error { return nil }

func newAnd() executor.NodeExecutor {
	return &boolBinaryExecutor{nodeType: "and", op: func(a, b bool) bool { return a && b }}
}
func newOr() executor.NodeExecutor {
	return &boolBinaryExecutor{nodeType: "or", op: func(a, b bool) bool { return a || b }}
}

// notExecutor implements boolean negation over "value".
type notExecutor struct{}

func (e *notExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v, _ := inputOrControl(ectx, "value")
	return types.Outputs{"result": !conv.Bool(v)}, nil
}
func (e *notExecutor) NodeType() types.NodeType  { return "not" }
func (e *notExecutor) Validate(types.Node) error { return nil }

// comparisonExecutor implements gt/lt/eq over "a"/"b".
type comparisonExecutor struct {
	nodeType types.NodeType
	op       func(a, b float64) bool
}

func (e *comparisonExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	a := numericOperand(ectx, "a", 0)
	b := numericOperand(ectx, "b", 0)
	return types.Outputs{"result": e.op(a, b)}, nil
}
func (e *comparisonExecutor) NodeType() types.NodeType  { return e.nodeType }
func (e *comparisonExecutor) Validate(types.Node) error { return nil }

func newGT() executor.NodeExecutor {
	return &comparisonExecutor{nodeType: "gt", op: func(a, b float64) bool { return a > b }}
}
func newLT() executor.NodeExecutor {
	return &comparisonExecutor{nodeType: "lt", op: func(a, b float64) bool { return a < b }}
}
func newEQ() executor.NodeExecutor {
	return &comparisonExecutor{nodeType: "eq", op: func(a, b float64) bool { return a == b }}
}
