package mathlogic

import (
	"context"
	"math"

	"github.com/nodeforge/dataflow/pkg/executor"
	"github.com/nodeforge/dataflow/pkg/executors/internal/conv"
	"github.com/nodeforge/dataflow/pkg/types"
)

// trigExecutor dispatches on the "operation" control over the "value"
// port (plus "value2" for atan2). Unknown operations default to the
// first (sin), per the family convention.
type trigExecutor struct{}

func (e *trigExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	v := numericOperand(ectx, "value", 0)
	op, _ := ectx.Control("operation")

	var result float64
	switch conv.String(op) {
	case "cos":
		result = math.Cos(v)
	case "tan":
		result = math.Tan(v)
	case "asin":
		result = math.Asin(v)
	case "acos":
		result = math.Acos(v)
	case "atan":
		result = math.Atan(v)
	case "atan2":
		result = math.Atan2(v, numericOperand(ectx, "value2", 1))
	case "degrees":
		result = v * 180 / math.Pi
	case "radians":
		result = v * math.Pi / 180
	default: // "sin" and unrecognized operations
		result = math.Sin(v)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		result = 0
	}
	return types.Outputs{"result": result}, nil
}

func (e *trigExecutor) NodeType() types.NodeType  { return "trig" }
func (e *trigExecutor) Validate(types.Node) error { return nil }

// moduloExecutor is a % b with the family's divide-by-zero-returns-0
// convention; the result carries a's sign the way math.Mod does.
type moduloExecutor struct{}

func (e *moduloExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	a := numericOperand(ectx, "a", 0)
	b := numericOperand(ectx, "b", 0)
	if b == 0 {
		return types.Outputs{"result": 0.0}, nil
	}
	return types.Outputs{"result": math.Mod(a, b)}, nil
}

func (e *moduloExecutor) NodeType() types.NodeType  { return "modulo" }
func (e *moduloExecutor) Validate(types.Node) error { return nil }

// vectorExecutor operates componentwise on the "a" and "b" ports read as
// numeric sequences. Mismatched lengths truncate to the shorter operand;
// "scale" multiplies a by the scalar "b"; "normalize"/"length" ignore b.
// Unknown operations default to the first (add).
type vectorExecutor struct{}

func (e *vectorExecutor) Execute(_ context.Context, ectx executor.ExecutionContext) (types.Outputs, error) {
	a := vectorOperand(ectx, "a")
	b := vectorOperand(ectx, "b")
	op, _ := ectx.Control("operation")

	switch conv.String(op) {
	case "subtract":
		return types.Outputs{"result": zipWith(a, b, func(x, y float64) float64 { return x - y })}, nil
	case "multiply":
		return types.Outputs{"result": zipWith(a, b, func(x, y float64) float64 { return x * y })}, nil
	case "scale":
		s := numericOperand(ectx, "b", 1)
		out := make([]float64, len(a))
		for i, x := range a {
			out[i] = x * s
		}
		return types.Outputs{"result": out}, nil
	case "dot":
		var sum float64
		for i := 0; i < len(a) && i < len(b); i++ {
			sum += a[i] * b[i]
		}
		return types.Outputs{"result": sum}, nil
	case "length":
		return types.Outputs{"result": vectorLength(a)}, nil
	case "distance":
		return types.Outputs{"result": vectorLength(zipWith(a, b, func(x, y float64) float64 { return x - y }))}, nil
	case "normalize":
		l := vectorLength(a)
		out := make([]float64, len(a))
		if l != 0 {
			for i, x := range a {
				out[i] = x / l
			}
		}
		return types.Outputs{"result": out}, nil
	default: // "add" and unrecognized operations
		return types.Outputs{"result": zipWith(a, b, func(x, y float64) float64 { return x + y })}, nil
	}
}

func (e *vectorExecutor) NodeType() types.NodeType  { return "vector" }
func (e *vectorExecutor) Validate(types.Node) error { return nil }

// vectorOperand reads a port/control as a numeric sequence: []float64
// passes through, []any coerces elementwise, and a scalar becomes a
// one-element vector.
func vectorOperand(ectx executor.ExecutionContext, port string) []float64 {
	v, ok := inputOrControl(ectx, port)
	if !ok || v == nil {
		return nil
	}
	switch s := v.(type) {
	case []float64:
		return s
	case []any:
		out := make([]float64, len(s))
		for i, e := range s {
			out[i] = conv.Float(e, 0)
		}
		return out
	default:
		return []float64{conv.Float(v, 0)}
	}
}

func zipWith(a, b []float64, f func(x, y float64) float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = f(a[i], b[i])
	}
	return out
}

func vectorLength(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
