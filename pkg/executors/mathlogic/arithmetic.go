// Package mathlogic implements the pure math/logic/shaping executor
// family: arithmetic, boolean logic, comparisons, and the
// lerp/remap/wrap/quantize/smoothstep shaping functions, plus an
// expr-lang-backed "expression" node. Every executor here is a pure
// function of inputs and controls with no cross-tick state (smoothstep's
// previous result is the one exception, held per node in a
// resource.Table[float64]). Each operation is its own small executor
// rather than one big switch.
package mathlogic

import (
	"context"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/types"
)

func inputOrControl(ectx executor.ExecutionContext, port string) (any, bool) {
	if v, ok := ectx.Input(port); ok {
		return v, true
	}
	return ectx.Control(port)
}

func numericOperand(ectx executor.ExecutionContext, port string, def float64) float64 {
	v, ok := inputOrControl(ectx, port)
	if !ok {
		return def
	}
	return conv.Float(v, def)
}

// arithmeticExecutor implements add/subtract/multiply/divide over the "a"
// and "b" ports/controls. Division by zero returns 0 rather than Inf/NaN.
type arithmeticExecutor struct {
	nodeType types.NodeType
	op       func(a, b float64) float64
}

func (e *arithmeticExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	a := numericOperand(ectx, "a", 0)
	b := numericOperand(ectx, "b", 0)
	return types.Outputs{"result": e.op(a, b)}, nil
}

func (e *arithmeticExecutor) NodeType() types.NodeType { return e.nodeType }
func (e *arithmeticExecutor) Validate(types.Node) error { return nil }

func newAdd() executor.NodeExecutor {
	return &arithmeticExecutor{nodeType: "add", op: func(a, b float64) float64 { return a + b }}
}

func newSubtract() executor.NodeExecutor {
	return &arithmeticExecutor{nodeType: "subtract", op: func(a, b float64) float64 { return a - b }}
}

func newMultiply() executor.NodeExecutor {
	return &arithmeticExecutor{nodeType: "multiply", op: func(a, b float64) float64 { return a * b }}
}

func newDivide() executor.NodeExecutor {
	return &arithmeticExecutor{nodeType: "divide", op: func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	}}
}
